package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.WalletRepository = (*WalletRepo)(nil)

// WalletRepo implementación de la proyección de billeteras sobre PostgreSQL (usable con pool o tx).
type WalletRepo struct {
	q Querier
}

// NewWalletRepository construye el adaptador de billeteras. Pasar pool o tx (Querier).
func NewWalletRepository(q Querier) *WalletRepo {
	return &WalletRepo{q: q}
}

// Get obtiene el saldo actual de un técnico para un producto. Si no existe fila, saldo cero.
func (r *WalletRepo) Get(engineerID, itemName string) (*entity.WalletBalance, error) {
	query := `
		SELECT engineer_id, item_name, item_category, balance, unit, master_id, updated_at
		FROM wallet_balances WHERE engineer_id = $1 AND item_name = $2`
	var w entity.WalletBalance
	err := r.q.QueryRow(context.Background(), query, engineerID, itemName).Scan(
		&w.EngineerID, &w.ItemName, &w.ItemCategory, &w.Balance, &w.Unit, &w.MasterID, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.WalletBalance{EngineerID: engineerID, ItemName: itemName, Balance: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get wallet: %w", err)
	}
	return &w, nil
}

// GetForUpdate obtiene el saldo y bloquea la fila para update (SELECT FOR UPDATE).
// Sólo serializa sobre filas existentes; cuando la fila aún no existe no hay
// nada que bloquear, y la escritura debe ir por ApplyDelta.
func (r *WalletRepo) GetForUpdate(engineerID, itemName string) (*entity.WalletBalance, error) {
	query := `
		SELECT engineer_id, item_name, item_category, balance, unit, master_id, updated_at
		FROM wallet_balances WHERE engineer_id = $1 AND item_name = $2
		FOR UPDATE`
	var w entity.WalletBalance
	err := r.q.QueryRow(context.Background(), query, engineerID, itemName).Scan(
		&w.EngineerID, &w.ItemName, &w.ItemCategory, &w.Balance, &w.Unit, &w.MasterID, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.WalletBalance{EngineerID: engineerID, ItemName: itemName, Balance: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get wallet for update: %w", err)
	}
	return &w, nil
}

// ApplyDelta suma delta al saldo de forma atómica, insertando la fila si no
// existe. El UPDATE es aditivo sobre el valor en tabla, así dos transacciones
// que crean la misma fila en paralelo acumulan ambas en vez de pisarse. El
// CHECK (balance >= 0) de la tabla rechaza saldos negativos.
func (r *WalletRepo) ApplyDelta(ref *entity.WalletBalance, delta decimal.Decimal) error {
	query := `
		INSERT INTO wallet_balances (engineer_id, item_name, item_category, balance, unit, master_id, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (engineer_id, item_name)
		DO UPDATE SET
			balance = wallet_balances.balance + EXCLUDED.balance,
			unit = EXCLUDED.unit,
			item_category = CASE WHEN EXCLUDED.item_category <> '' THEN EXCLUDED.item_category ELSE wallet_balances.item_category END,
			master_id = COALESCE(EXCLUDED.master_id, wallet_balances.master_id),
			updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		ref.EngineerID, ref.ItemName, ref.ItemCategory, delta, ref.Unit, ref.MasterID,
	)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientStock
		}
		return fmt.Errorf("apply wallet delta: %w", err)
	}
	return nil
}

// ListByEngineer lista todos los saldos no nulos de un técnico.
func (r *WalletRepo) ListByEngineer(engineerID string) ([]*entity.WalletBalance, error) {
	query := `
		SELECT engineer_id, item_name, item_category, balance, unit, master_id, updated_at
		FROM wallet_balances WHERE engineer_id = $1 AND balance <> 0 ORDER BY item_name`
	rows, err := r.q.Query(context.Background(), query, engineerID)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()
	var list []*entity.WalletBalance
	for rows.Next() {
		var w entity.WalletBalance
		if err := rows.Scan(&w.EngineerID, &w.ItemName, &w.ItemCategory, &w.Balance, &w.Unit, &w.MasterID, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan wallet: %w", err)
		}
		list = append(list, &w)
	}
	return list, rows.Err()
}
