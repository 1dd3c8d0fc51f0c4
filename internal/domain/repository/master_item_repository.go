package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// MasterItemRepository define el puerto de persistencia para el catálogo maestro.
type MasterItemRepository interface {
	Create(item *entity.MasterItem) error
	GetByID(id string) (*entity.MasterItem, error)
	// GetByNaturalKey busca por (empresa, nombre normalizado, part_no normalizado).
	GetByNaturalKey(companyID, nameKey, partNo string) (*entity.MasterItem, error)
	// AdjustStock aplica el delta firmado como UPDATE atómico en DB (nunca
	// read-modify-write en aplicación). Un resultado negativo no se aplica:
	// retorna domain.ErrInsufficientStock.
	AdjustStock(id string, delta decimal.Decimal) error
	// UpdatePurchaseInfo actualiza último precio de compra y fabricante (en recepción).
	UpdatePurchaseInfo(id string, price decimal.Decimal, manufacturer string) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.MasterItem, error)
}
