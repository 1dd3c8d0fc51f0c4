package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.InventoryUnitRepository = (*InventoryUnitRepo)(nil)

// InventoryUnitRepo implementación del registro de unidades serializadas sobre PostgreSQL.
type InventoryUnitRepo struct {
	q Querier
}

// NewInventoryUnitRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryUnitRepository(q Querier) *InventoryUnitRepo {
	return &InventoryUnitRepo{q: q}
}

// RegisterUnits inserta unidades nuevas en estado in_stock. El constraint UNIQUE
// global sobre barcode convierte duplicados en domain.ErrDuplicate.
func (r *InventoryUnitRepo) RegisterUnits(units []*entity.InventoryUnit) error {
	query := `
		INSERT INTO inventory_units (id, master_id, barcode, sku, status, received_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, u := range units {
		_, err := r.q.Exec(context.Background(), query,
			u.ID, u.MasterID, u.Barcode, u.SKU, u.Status, u.ReceivedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("barcode %s: %w", u.Barcode, domain.ErrDuplicate)
			}
			return fmt.Errorf("insert inventory unit: %w", err)
		}
	}
	return nil
}

// GetByBarcode obtiene una unidad por su código de barras (único global).
func (r *InventoryUnitRepo) GetByBarcode(barcode string) (*entity.InventoryUnit, error) {
	query := `
		SELECT id, master_id, barcode, sku, status, current_holder_id, received_at, issued_at
		FROM inventory_units WHERE barcode = $1`
	var u entity.InventoryUnit
	err := r.q.QueryRow(context.Background(), query, barcode).Scan(
		&u.ID, &u.MasterID, &u.Barcode, &u.SKU, &u.Status, &u.CurrentHolderID, &u.ReceivedAt, &u.IssuedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get unit by barcode: %w", err)
	}
	return &u, nil
}

// IssueUnits transiciona in_stock -> fulfilled con un único UPDATE condicional
// (compare-and-swap sobre status). Dos entregas concurrentes del mismo barcode se
// serializan en la DB: solo una ve la fila en in_stock. Devuelve filas afectadas.
func (r *InventoryUnitRepo) IssueUnits(barcodes []string, holderID string, at time.Time) (int64, error) {
	cmd, err := r.q.Exec(context.Background(), `
		UPDATE inventory_units
		SET status = $2, current_holder_id = $3, issued_at = $4
		WHERE barcode = ANY($1) AND status = $5`,
		barcodes, entity.UnitStatusFulfilled, holderID, at, entity.UnitStatusInStock,
	)
	if err != nil {
		return 0, fmt.Errorf("issue units: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// ReturnUnit transiciona fulfilled -> in_stock y limpia holder e issued_at.
// Cero filas afectadas significa que la unidad no estaba fulfilled.
func (r *InventoryUnitRepo) ReturnUnit(barcode string) (int64, error) {
	cmd, err := r.q.Exec(context.Background(), `
		UPDATE inventory_units
		SET status = $2, current_holder_id = NULL, issued_at = NULL
		WHERE barcode = $1 AND status = $3`,
		barcode, entity.UnitStatusInStock, entity.UnitStatusFulfilled,
	)
	if err != nil {
		return 0, fmt.Errorf("return unit: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// ListByMaster lista las unidades de un registro maestro.
func (r *InventoryUnitRepo) ListByMaster(masterID string) ([]*entity.InventoryUnit, error) {
	query := `
		SELECT id, master_id, barcode, sku, status, current_holder_id, received_at, issued_at
		FROM inventory_units WHERE master_id = $1 ORDER BY received_at DESC`
	rows, err := r.q.Query(context.Background(), query, masterID)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryUnit
	for rows.Next() {
		var u entity.InventoryUnit
		if err := rows.Scan(&u.ID, &u.MasterID, &u.Barcode, &u.SKU, &u.Status,
			&u.CurrentHolderID, &u.ReceivedAt, &u.IssuedAt); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

// SelectAvailable devuelve hasta limit unidades in_stock del maestro, las más
// antiguas primero. SKIP LOCKED hace que cumplimientos concurrentes del mismo
// maestro elijan unidades disjuntas en vez de bloquearse entre sí.
func (r *InventoryUnitRepo) SelectAvailable(masterID string, limit int) ([]*entity.InventoryUnit, error) {
	query := `
		SELECT id, master_id, barcode, sku, status, current_holder_id, received_at, issued_at
		FROM inventory_units
		WHERE master_id = $1 AND status = $2
		ORDER BY received_at
		LIMIT $3
		FOR UPDATE SKIP LOCKED`
	rows, err := r.q.Query(context.Background(), query, masterID, entity.UnitStatusInStock, limit)
	if err != nil {
		return nil, fmt.Errorf("select available units: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryUnit
	for rows.Next() {
		var u entity.InventoryUnit
		if err := rows.Scan(&u.ID, &u.MasterID, &u.Barcode, &u.SKU, &u.Status,
			&u.CurrentHolderID, &u.ReceivedAt, &u.IssuedAt); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

// CountByMasterAndStatus cuenta unidades de un maestro en un estado dado.
func (r *InventoryUnitRepo) CountByMasterAndStatus(masterID, status string) (int64, error) {
	var n int64
	err := r.q.QueryRow(context.Background(),
		`SELECT count(*) FROM inventory_units WHERE master_id = $1 AND status = $2`,
		masterID, status,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count units: %w", err)
	}
	return n, nil
}
