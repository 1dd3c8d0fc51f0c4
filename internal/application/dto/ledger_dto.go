package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// UsageItemRequest un consumo: producto (por nombre) y cantidad positiva.
type UsageItemRequest struct {
	ItemName string          `json:"item_name" validate:"required"`
	Quantity decimal.Decimal `json:"quantity"`
}

// RecordUsageRequest body para POST /api/usage.
type RecordUsageRequest struct {
	EngineerID  string             `json:"engineer_id" validate:"required"`
	WorkOrderID string             `json:"work_order_id" validate:"required"`
	Notes       string             `json:"notes"`
	Items       []UsageItemRequest `json:"items" validate:"required,min=1"`
}

// WalletBalanceResponse saldo de un producto en la billetera de un técnico.
type WalletBalanceResponse struct {
	EngineerID   string          `json:"engineer_id"`
	ItemName     string          `json:"item_name"`
	ItemCategory string          `json:"item_category,omitempty"`
	Balance      decimal.Decimal `json:"balance"`
	Unit         string          `json:"unit"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// LedgerEntryResponse un movimiento del libro.
type LedgerEntryResponse struct {
	ID           string          `json:"id"`
	EngineerID   *string         `json:"engineer_id,omitempty"`
	WorkOrderID  *string         `json:"work_order_id,omitempty"`
	BatchID      *string         `json:"batch_id,omitempty"`
	BatchName    string          `json:"batch_name,omitempty"`
	ItemName     string          `json:"item_name"`
	ItemCategory string          `json:"item_category,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	Type         string          `json:"type"`
	Notes        string          `json:"notes,omitempty"`
	RecordedBy   string          `json:"recorded_by"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ConsumptionRowResponse consumo agregado de un producto en el rango pedido.
type ConsumptionRowResponse struct {
	ItemName     string          `json:"item_name"`
	ItemCategory string          `json:"item_category"`
	Unit         string          `json:"unit"`
	TotalUsed    decimal.Decimal `json:"total_used"`
	Movements    int             `json:"movements"`
}
