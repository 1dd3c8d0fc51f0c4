package ledger

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios del ledger y la proyección de billeteras atados a esa tx.
type TxRunner interface {
	RunLedger(ctx context.Context, fn func(
		ledgerRepo repository.LedgerRepository,
		walletRepo repository.WalletRepository,
	) error) error
}

// ReportExporter serializa el reporte de consumo a un formato descargable (XLSX).
type ReportExporter interface {
	ExportConsumption(rows []repository.ConsumptionRow) ([]byte, error)
}
