package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ConsumptionRow resultado crudo del reporte de consumo por producto.
// Lo produce la DB; el use case lo convierte en DTO.
type ConsumptionRow struct {
	ItemName     string
	ItemCategory string
	Unit         string
	TotalUsed    decimal.Decimal // suma de usage en valor absoluto
	Movements    int
}

// LedgerRepository define el puerto de persistencia para el libro de movimientos.
// El ledger es append-only: no existe Update ni Delete de cantidad/tipo.
type LedgerRepository interface {
	Create(entry *entity.LedgerEntry) error
	GetByID(id string) (*entity.LedgerEntry, error)
	ListByEngineer(engineerID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error)
	ListByBatch(batchID string) ([]*entity.LedgerEntry, error)
	// SumByEngineerAndItem suma firmada de movimientos de un técnico para un producto.
	// Debe coincidir siempre con la proyección wallet_balances.
	SumByEngineerAndItem(engineerID, itemName string) (decimal.Decimal, error)
	ConsumptionReport(companyID string, from, to *time.Time) ([]ConsumptionRow, error)
}
