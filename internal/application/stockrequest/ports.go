package stockrequest

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// TxRunner ejecuta el cumplimiento de una solicitud dentro de una transacción:
// la entrega de materiales y la transición approved -> fulfilled se confirman
// juntas. Si la entrega falla, la solicitud queda approved y es reintentable.
type TxRunner interface {
	RunFulfillment(ctx context.Context, fn func(
		requestRepo repository.StockRequestRepository,
		masterRepo repository.MasterItemRepository,
		unitRepo repository.InventoryUnitRepository,
		ledgerRepo repository.LedgerRepository,
		walletRepo repository.WalletRepository,
	) error) error
}
