package issuance

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Una entrega con varios ítems se aplica completa o no se aplica.
type TxRunner interface {
	RunIssuance(ctx context.Context, fn func(
		masterRepo repository.MasterItemRepository,
		unitRepo repository.InventoryUnitRepository,
		ledgerRepo repository.LedgerRepository,
		walletRepo repository.WalletRepository,
	) error) error
}

// VoucherGenerator genera el comprobante PDF de una entrega de materiales.
type VoucherGenerator interface {
	GenerateVoucher(data VoucherData) ([]byte, error)
}

// VoucherData datos del comprobante de entrega.
type VoucherData struct {
	BatchID    string
	BatchName  string
	EngineerID string
	IssuedAt   string
	Lines      []VoucherLine
}

// VoucherLine una línea del comprobante.
type VoucherLine struct {
	ItemName string
	Quantity string
	Unit     string
}
