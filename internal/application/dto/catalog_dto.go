package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MasterItemResponse un producto del catálogo maestro con su stock actual.
type MasterItemResponse struct {
	ID                string          `json:"id"`
	ProductName       string          `json:"product_name"`
	PartNo            string          `json:"part_no"`
	Category          string          `json:"category,omitempty"`
	UnitMeasure       string          `json:"unit_measure"`
	TotalInStock      decimal.Decimal `json:"total_in_stock"`
	Manufacturer      string          `json:"manufacturer,omitempty"`
	LastPurchasePrice decimal.Decimal `json:"last_purchase_price"`
	Serialized        bool            `json:"serialized"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// MasterItemListResponse catálogo paginado.
type MasterItemListResponse struct {
	Items []MasterItemResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// InventoryUnitResponse una unidad física serializada con su estado actual.
type InventoryUnitResponse struct {
	ID              string     `json:"id"`
	MasterID        string     `json:"master_id"`
	Barcode         string     `json:"barcode"`
	SKU             string     `json:"sku,omitempty"`
	Status          string     `json:"status"`
	CurrentHolderID *string    `json:"current_holder_id,omitempty"`
	ReceivedAt      time.Time  `json:"received_at"`
	IssuedAt        *time.Time `json:"issued_at,omitempty"`
}
