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

var _ repository.MasterItemRepository = (*MasterItemRepo)(nil)

const masterItemColumns = `id, company_id, product_name, name_key, part_no, category, unit_measure,
		total_in_stock, manufacturer, last_purchase_price, serialized, created_at, updated_at`

// MasterItemRepo implementación del puerto MasterItemRepository sobre PostgreSQL (usable con pool o tx).
type MasterItemRepo struct {
	q Querier
}

// NewMasterItemRepository construye el adaptador del catálogo maestro. Pasar pool o tx (Querier).
func NewMasterItemRepository(q Querier) *MasterItemRepo {
	return &MasterItemRepo{q: q}
}

// Create persiste un producto nuevo del catálogo. TotalInStock inicia en 0.
func (r *MasterItemRepo) Create(item *entity.MasterItem) error {
	query := `
		INSERT INTO master_items (id, company_id, product_name, name_key, part_no, category, unit_measure,
			total_in_stock, manufacturer, last_purchase_price, serialized, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.CompanyID, item.ProductName, item.NameKey, item.PartNo, item.Category,
		item.UnitMeasure, item.TotalInStock, item.Manufacturer, item.LastPurchasePrice,
		item.Serialized, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert master item: %w", err)
	}
	return nil
}

// GetByID obtiene un registro maestro por ID.
func (r *MasterItemRepo) GetByID(id string) (*entity.MasterItem, error) {
	query := `SELECT ` + masterItemColumns + ` FROM master_items WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByNaturalKey busca por (empresa, nombre normalizado, part_no normalizado).
func (r *MasterItemRepo) GetByNaturalKey(companyID, nameKey, partNo string) (*entity.MasterItem, error) {
	query := `SELECT ` + masterItemColumns + `
		FROM master_items WHERE company_id = $1 AND name_key = $2 AND part_no = $3`
	return r.scanOne(r.q.QueryRow(context.Background(), query, companyID, nameKey, partNo))
}

// AdjustStock aplica el delta como incremento atómico en DB. La condición
// total_in_stock + delta >= 0 evita que el contador quede negativo: cero filas
// afectadas con el registro existente significa stock insuficiente.
func (r *MasterItemRepo) AdjustStock(id string, delta decimal.Decimal) error {
	cmd, err := r.q.Exec(context.Background(), `
		UPDATE master_items
		SET total_in_stock = total_in_stock + $2, updated_at = now()
		WHERE id = $1 AND total_in_stock + $2 >= 0`, id, delta)
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		existing, err := r.GetByID(id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		return domain.ErrInsufficientStock
	}
	return nil
}

// UpdatePurchaseInfo actualiza último precio de compra y fabricante (en recepción).
func (r *MasterItemRepo) UpdatePurchaseInfo(id string, price decimal.Decimal, manufacturer string) error {
	query := `
		UPDATE master_items
		SET last_purchase_price = $2,
		    manufacturer = CASE WHEN $3 <> '' THEN $3 ELSE manufacturer END,
		    updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, price, manufacturer)
	if err != nil {
		return fmt.Errorf("update purchase info: %w", err)
	}
	return nil
}

// ListByCompany lista el catálogo de una empresa con paginación.
func (r *MasterItemRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.MasterItem, error) {
	query := `SELECT ` + masterItemColumns + `
		FROM master_items WHERE company_id = $1 ORDER BY product_name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list master items: %w", err)
	}
	defer rows.Close()
	var list []*entity.MasterItem
	for rows.Next() {
		var m entity.MasterItem
		if err := rows.Scan(&m.ID, &m.CompanyID, &m.ProductName, &m.NameKey, &m.PartNo, &m.Category,
			&m.UnitMeasure, &m.TotalInStock, &m.Manufacturer, &m.LastPurchasePrice,
			&m.Serialized, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan master item: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

func (r *MasterItemRepo) scanOne(row pgx.Row) (*entity.MasterItem, error) {
	var m entity.MasterItem
	err := row.Scan(&m.ID, &m.CompanyID, &m.ProductName, &m.NameKey, &m.PartNo, &m.Category,
		&m.UnitMeasure, &m.TotalInStock, &m.Manufacturer, &m.LastPurchasePrice,
		&m.Serialized, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get master item: %w", err)
	}
	return &m, nil
}
