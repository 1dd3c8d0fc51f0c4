package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

const ledgerColumns = `id, engineer_id, company_id, work_order_id, batch_id, batch_name, item_name,
		item_category, quantity, unit, transaction_type, master_id, notes, recorded_by, created_at`

// LedgerRepo implementación del libro de movimientos sobre PostgreSQL (usable con pool o tx).
// Solo inserta y consulta: el ledger es append-only.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Create persiste un movimiento. El ID se genera si viene vacío.
func (r *LedgerRepo) Create(entry *entity.LedgerEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO ledger_entries (id, engineer_id, company_id, work_order_id, batch_id, batch_name,
			item_name, item_category, quantity, unit, transaction_type, master_id, notes, recorded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.EngineerID, entry.CompanyID, entry.WorkOrderID, entry.BatchID,
		entry.BatchName, entry.ItemName, entry.ItemCategory, entry.Quantity, entry.Unit,
		entry.Type, entry.MasterID, entry.Notes, entry.RecordedBy, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create ledger entry: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *LedgerRepo) GetByID(id string) (*entity.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE id = $1`
	var e entity.LedgerEntry
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&e.ID, &e.EngineerID, &e.CompanyID, &e.WorkOrderID, &e.BatchID, &e.BatchName,
		&e.ItemName, &e.ItemCategory, &e.Quantity, &e.Unit, &e.Type, &e.MasterID,
		&e.Notes, &e.RecordedBy, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ledger entry: %w", err)
	}
	return &e, nil
}

// ListByEngineer lista movimientos de un técnico en un rango de fechas.
func (r *LedgerRepo) ListByEngineer(engineerID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE engineer_id = $1`
	args := []any{engineerID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	return r.list(query, args...)
}

// ListByBatch lista los movimientos que comparten un batch (recepción o entrega).
func (r *LedgerRepo) ListByBatch(batchID string) ([]*entity.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE batch_id = $1 ORDER BY created_at`
	return r.list(query, batchID)
}

// SumByEngineerAndItem suma firmada de los movimientos de un técnico para un producto.
func (r *LedgerRepo) SumByEngineerAndItem(engineerID, itemName string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(quantity), 0) FROM ledger_entries WHERE engineer_id = $1 AND item_name = $2`,
		engineerID, itemName,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum ledger: %w", err)
	}
	return sum, nil
}

// ConsumptionReport agrega el consumo (usage) por producto para una empresa en un rango de fechas.
func (r *LedgerRepo) ConsumptionReport(companyID string, from, to *time.Time) ([]repository.ConsumptionRow, error) {
	query := `
		SELECT item_name, item_category, unit, COALESCE(SUM(-quantity), 0) AS total_used, count(*)
		FROM ledger_entries
		WHERE company_id = $1 AND transaction_type = 'usage'`
	args := []any{companyID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += " GROUP BY item_name, item_category, unit ORDER BY total_used DESC"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("consumption report: %w", err)
	}
	defer rows.Close()
	var list []repository.ConsumptionRow
	for rows.Next() {
		var row repository.ConsumptionRow
		if err := rows.Scan(&row.ItemName, &row.ItemCategory, &row.Unit, &row.TotalUsed, &row.Movements); err != nil {
			return nil, fmt.Errorf("scan consumption row: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

func (r *LedgerRepo) list(query string, args ...any) ([]*entity.LedgerEntry, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		if err := rows.Scan(&e.ID, &e.EngineerID, &e.CompanyID, &e.WorkOrderID, &e.BatchID,
			&e.BatchName, &e.ItemName, &e.ItemCategory, &e.Quantity, &e.Unit, &e.Type,
			&e.MasterID, &e.Notes, &e.RecordedBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
