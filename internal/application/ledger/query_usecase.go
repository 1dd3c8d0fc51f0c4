package ledger

import (
	"context"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// QueryUseCase agrupa las rutas de lectura del ledger: billeteras, historial
// por técnico y reporte de consumo (JSON o XLSX).
type QueryUseCase struct {
	ledgerRepo repository.LedgerRepository
	walletRepo repository.WalletRepository
	exporter   ReportExporter
}

// NewQueryUseCase construye el caso de uso de lecturas.
func NewQueryUseCase(
	ledgerRepo repository.LedgerRepository,
	walletRepo repository.WalletRepository,
	exporter ReportExporter,
) *QueryUseCase {
	return &QueryUseCase{ledgerRepo: ledgerRepo, walletRepo: walletRepo, exporter: exporter}
}

// GetWallet devuelve los saldos actuales de un técnico.
func (uc *QueryUseCase) GetWallet(ctx context.Context, engineerID string) ([]*entity.WalletBalance, error) {
	return uc.walletRepo.ListByEngineer(engineerID)
}

// GetHistory devuelve el historial de movimientos de un técnico en un rango de fechas.
func (uc *QueryUseCase) GetHistory(ctx context.Context, engineerID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error) {
	return uc.ledgerRepo.ListByEngineer(engineerID, from, to, limit, offset)
}

// GetConsumptionReport agrega el consumo por producto de una empresa en el rango dado.
func (uc *QueryUseCase) GetConsumptionReport(ctx context.Context, companyID string, from, to *time.Time) ([]repository.ConsumptionRow, error) {
	return uc.ledgerRepo.ConsumptionReport(companyID, from, to)
}

// ExportConsumptionReport genera el reporte de consumo como archivo XLSX.
func (uc *QueryUseCase) ExportConsumptionReport(ctx context.Context, companyID string, from, to *time.Time) ([]byte, error) {
	rows, err := uc.ledgerRepo.ConsumptionReport(companyID, from, to)
	if err != nil {
		return nil, err
	}
	return uc.exporter.ExportConsumption(rows)
}
