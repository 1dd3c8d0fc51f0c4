package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Almacen-api/internal/application/issuance"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/application/receiving"
	"github.com/jhoicas/Almacen-api/internal/application/stockrequest"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// Ensure TxRunner implementa los runners de cada caso de uso transaccional.
var _ receiving.TxRunner = (*TxRunner)(nil)
var _ issuance.TxRunner = (*TxRunner)(nil)
var _ ledger.TxRunner = (*TxRunner)(nil)
var _ stockrequest.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunReceiving inicia una transacción con los repos de la recepción de proveedor.
func (r *TxRunner) RunReceiving(ctx context.Context, fn func(
	masterRepo repository.MasterItemRepository,
	unitRepo repository.InventoryUnitRepository,
	batchRepo repository.ReceivingBatchRepository,
	ledgerRepo repository.LedgerRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(
			NewMasterItemRepository(tx),
			NewInventoryUnitRepository(tx),
			NewReceivingBatchRepository(tx),
			NewLedgerRepository(tx),
		)
	})
}

// RunIssuance inicia una transacción con los repos de entregas y devoluciones.
func (r *TxRunner) RunIssuance(ctx context.Context, fn func(
	masterRepo repository.MasterItemRepository,
	unitRepo repository.InventoryUnitRepository,
	ledgerRepo repository.LedgerRepository,
	walletRepo repository.WalletRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(
			NewMasterItemRepository(tx),
			NewInventoryUnitRepository(tx),
			NewLedgerRepository(tx),
			NewWalletRepository(tx),
		)
	})
}

// RunLedger inicia una transacción con ledger y billeteras (registro de consumo).
func (r *TxRunner) RunLedger(ctx context.Context, fn func(
	ledgerRepo repository.LedgerRepository,
	walletRepo repository.WalletRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewLedgerRepository(tx), NewWalletRepository(tx))
	})
}

// RunFulfillment inicia una transacción con los repos del cumplimiento de
// solicitudes: la entrega y la transición de estado se confirman juntas.
func (r *TxRunner) RunFulfillment(ctx context.Context, fn func(
	requestRepo repository.StockRequestRepository,
	masterRepo repository.MasterItemRepository,
	unitRepo repository.InventoryUnitRepository,
	ledgerRepo repository.LedgerRepository,
	walletRepo repository.WalletRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(
			NewStockRequestRepository(tx),
			NewMasterItemRepository(tx),
			NewInventoryUnitRepository(tx),
			NewLedgerRepository(tx),
			NewWalletRepository(tx),
		)
	})
}
