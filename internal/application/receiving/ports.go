package receiving

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza que una recepción con n líneas se aplique completa o no
// se aplique: un barcode duplicado en la línea k revierte las líneas 1..k-1.
type TxRunner interface {
	RunReceiving(ctx context.Context, fn func(
		masterRepo repository.MasterItemRepository,
		unitRepo repository.InventoryUnitRepository,
		batchRepo repository.ReceivingBatchRepository,
		ledgerRepo repository.LedgerRepository,
	) error) error
}
