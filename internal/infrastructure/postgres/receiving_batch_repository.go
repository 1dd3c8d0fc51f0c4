package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.ReceivingBatchRepository = (*ReceivingBatchRepo)(nil)

// ReceivingBatchRepo implementación de recepciones sobre PostgreSQL (usable con pool o tx).
type ReceivingBatchRepo struct {
	q Querier
}

// NewReceivingBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReceivingBatchRepository(q Querier) *ReceivingBatchRepo {
	return &ReceivingBatchRepo{q: q}
}

// CreateBatch persiste la cabecera de la recepción (totales en cero hasta procesar las líneas).
func (r *ReceivingBatchRepo) CreateBatch(batch *entity.ReceivingBatch) error {
	query := `
		INSERT INTO receiving_batches (id, company_id, supplier_name, reference_no, received_by, total_items, total_value, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		batch.ID, batch.CompanyID, batch.SupplierName, batch.ReferenceNo,
		batch.ReceivedBy, batch.TotalItems, batch.TotalValue, batch.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert receiving batch: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de recepción.
func (r *ReceivingBatchRepo) CreateItem(item *entity.ReceivingBatchItem) error {
	query := `
		INSERT INTO receiving_batch_items (id, batch_id, master_id, quantity, purchase_price, sku)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.BatchID, item.MasterID, item.Quantity, item.PurchasePrice, item.SKU,
	)
	if err != nil {
		return fmt.Errorf("insert batch item: %w", err)
	}
	return nil
}

// UpdateTotals fija total_items/total_value con las sumas realmente procesadas.
func (r *ReceivingBatchRepo) UpdateTotals(batchID string, totalItems, totalValue decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE receiving_batches SET total_items = $2, total_value = $3 WHERE id = $1`,
		batchID, totalItems, totalValue,
	)
	if err != nil {
		return fmt.Errorf("update batch totals: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de una recepción.
func (r *ReceivingBatchRepo) GetByID(id string) (*entity.ReceivingBatch, error) {
	query := `
		SELECT id, company_id, supplier_name, reference_no, received_by, total_items, total_value, created_at
		FROM receiving_batches WHERE id = $1`
	var b entity.ReceivingBatch
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&b.ID, &b.CompanyID, &b.SupplierName, &b.ReferenceNo, &b.ReceivedBy,
		&b.TotalItems, &b.TotalValue, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get receiving batch: %w", err)
	}
	return &b, nil
}

// ListByCompany lista recepciones de una empresa, más reciente primero.
func (r *ReceivingBatchRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.ReceivingBatch, error) {
	query := `
		SELECT id, company_id, supplier_name, reference_no, received_by, total_items, total_value, created_at
		FROM receiving_batches WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list receiving batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.ReceivingBatch
	for rows.Next() {
		var b entity.ReceivingBatch
		if err := rows.Scan(&b.ID, &b.CompanyID, &b.SupplierName, &b.ReferenceNo, &b.ReceivedBy,
			&b.TotalItems, &b.TotalValue, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan receiving batch: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// ListItems devuelve las líneas de una recepción con el producto resuelto (JOIN al catálogo).
func (r *ReceivingBatchRepo) ListItems(batchID string) ([]repository.BatchItemDetail, error) {
	query := `
		SELECT i.id, i.batch_id, i.master_id, i.quantity, i.purchase_price, i.sku,
		       m.product_name, m.part_no, m.serialized
		FROM receiving_batch_items i
		JOIN master_items m ON m.id = i.master_id
		WHERE i.batch_id = $1`
	rows, err := r.q.Query(context.Background(), query, batchID)
	if err != nil {
		return nil, fmt.Errorf("list batch items: %w", err)
	}
	defer rows.Close()
	var list []repository.BatchItemDetail
	for rows.Next() {
		var d repository.BatchItemDetail
		if err := rows.Scan(&d.Item.ID, &d.Item.BatchID, &d.Item.MasterID, &d.Item.Quantity,
			&d.Item.PurchasePrice, &d.Item.SKU, &d.ProductName, &d.PartNo, &d.Serialized); err != nil {
			return nil, fmt.Errorf("scan batch item: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}
