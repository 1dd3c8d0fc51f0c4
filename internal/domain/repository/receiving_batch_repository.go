package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// BatchItemDetail línea de recepción con el nombre de producto resuelto (para lecturas).
type BatchItemDetail struct {
	Item        entity.ReceivingBatchItem
	ProductName string
	PartNo      string
	Serialized  bool
}

// ReceivingBatchRepository define el puerto de persistencia para recepciones.
type ReceivingBatchRepository interface {
	CreateBatch(batch *entity.ReceivingBatch) error
	CreateItem(item *entity.ReceivingBatchItem) error
	// UpdateTotals fija total_items/total_value con las sumas realmente procesadas.
	UpdateTotals(batchID string, totalItems, totalValue decimal.Decimal) error
	GetByID(id string) (*entity.ReceivingBatch, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.ReceivingBatch, error)
	ListItems(batchID string) ([]BatchItemDetail, error)
}
