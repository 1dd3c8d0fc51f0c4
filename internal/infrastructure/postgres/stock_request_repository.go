package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.StockRequestRepository = (*StockRequestRepo)(nil)

// StockRequestRepo implementación de solicitudes de materiales sobre PostgreSQL (usable con pool o tx).
// Las líneas producto+cantidad se persisten como JSONB.
type StockRequestRepo struct {
	q Querier
}

// NewStockRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockRequestRepository(q Querier) *StockRequestRepo {
	return &StockRequestRepo{q: q}
}

// Create persiste una solicitud nueva.
func (r *StockRequestRepo) Create(request *entity.StockRequest) error {
	items, err := json.Marshal(request.Items)
	if err != nil {
		return fmt.Errorf("marshal request items: %w", err)
	}
	query := `
		INSERT INTO stock_requests (id, company_id, engineer_id, items, status, notes, admin_notes, approved_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = r.q.Exec(context.Background(), query,
		request.ID, request.CompanyID, request.EngineerID, items, request.Status,
		request.Notes, request.AdminNotes, request.ApprovedBy, request.CreatedAt, request.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock request: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud por ID.
func (r *StockRequestRepo) GetByID(id string) (*entity.StockRequest, error) {
	return r.get(id, false)
}

// GetByIDForUpdate obtiene la solicitud bloqueando la fila (SELECT FOR UPDATE).
func (r *StockRequestRepo) GetByIDForUpdate(id string) (*entity.StockRequest, error) {
	return r.get(id, true)
}

func (r *StockRequestRepo) get(id string, forUpdate bool) (*entity.StockRequest, error) {
	query := `
		SELECT id, company_id, engineer_id, items, status, notes, admin_notes, approved_by, created_at, updated_at
		FROM stock_requests WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var req entity.StockRequest
	var items []byte
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&req.ID, &req.CompanyID, &req.EngineerID, &items, &req.Status,
		&req.Notes, &req.AdminNotes, &req.ApprovedBy, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock request: %w", err)
	}
	if err := json.Unmarshal(items, &req.Items); err != nil {
		return nil, fmt.Errorf("unmarshal request items: %w", err)
	}
	return &req, nil
}

// Update guarda items, estado y notas. Las reglas de quién puede editar qué
// se validan en el use case; aquí solo se persiste.
func (r *StockRequestRepo) Update(request *entity.StockRequest) error {
	items, err := json.Marshal(request.Items)
	if err != nil {
		return fmt.Errorf("marshal request items: %w", err)
	}
	query := `
		UPDATE stock_requests
		SET items = $2, status = $3, notes = $4, admin_notes = $5, approved_by = $6, updated_at = now()
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		request.ID, items, request.Status, request.Notes, request.AdminNotes, request.ApprovedBy,
	)
	if err != nil {
		return fmt.Errorf("update stock request: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update stock request %s: sin filas afectadas", request.ID)
	}
	return nil
}

// ListByCompany lista solicitudes de una empresa, opcionalmente filtradas por estado.
func (r *StockRequestRepo) ListByCompany(companyID, status string, limit, offset int) ([]*entity.StockRequest, error) {
	query := `
		SELECT id, company_id, engineer_id, items, status, notes, admin_notes, approved_by, created_at, updated_at
		FROM stock_requests WHERE company_id = $1`
	args := []any{companyID}
	pos := 2
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)
	return r.list(query, args...)
}

// ListByEngineer lista las solicitudes de un técnico.
func (r *StockRequestRepo) ListByEngineer(engineerID string, limit, offset int) ([]*entity.StockRequest, error) {
	query := `
		SELECT id, company_id, engineer_id, items, status, notes, admin_notes, approved_by, created_at, updated_at
		FROM stock_requests WHERE engineer_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(query, engineerID, limit, offset)
}

func (r *StockRequestRepo) list(query string, args ...any) ([]*entity.StockRequest, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock requests: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockRequest
	for rows.Next() {
		var req entity.StockRequest
		var items []byte
		if err := rows.Scan(&req.ID, &req.CompanyID, &req.EngineerID, &items, &req.Status,
			&req.Notes, &req.AdminNotes, &req.ApprovedBy, &req.CreatedAt, &req.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock request: %w", err)
		}
		if err := json.Unmarshal(items, &req.Items); err != nil {
			return nil, fmt.Errorf("unmarshal request items: %w", err)
		}
		list = append(list, &req)
	}
	return list, rows.Err()
}
