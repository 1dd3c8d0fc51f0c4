package dto

import "time"

// StockRequestItemRequest una línea producto+cantidad de la solicitud.
type StockRequestItemRequest struct {
	MasterID string `json:"master_id" validate:"required"`
	Quantity int64  `json:"quantity" validate:"min=1"`
}

// CreateStockRequestRequest body para POST /api/stock-requests.
type CreateStockRequestRequest struct {
	Notes string                    `json:"notes"`
	Items []StockRequestItemRequest `json:"items" validate:"required,min=1"`
}

// UpdateStockRequestRequest body para PUT /api/stock-requests/{id} (solo pending).
type UpdateStockRequestRequest struct {
	Notes string                    `json:"notes"`
	Items []StockRequestItemRequest `json:"items" validate:"required,min=1"`
}

// ProcessStockRequestRequest decisión del admin sobre una solicitud pending.
type ProcessStockRequestRequest struct {
	Decision   string `json:"decision" validate:"required,oneof=approved rejected"`
	AdminNotes string `json:"admin_notes"`
}

// StockRequestResponse una solicitud con sus líneas y estado.
type StockRequestResponse struct {
	ID         string                    `json:"id"`
	EngineerID string                    `json:"engineer_id"`
	Items      []StockRequestItemRequest `json:"items"`
	Status     string                    `json:"status"`
	Notes      string                    `json:"notes,omitempty"`
	AdminNotes string                    `json:"admin_notes,omitempty"`
	ApprovedBy *string                   `json:"approved_by,omitempty"`
	CreatedAt  time.Time                 `json:"created_at"`
	UpdatedAt  time.Time                 `json:"updated_at"`
}

// StockRequestListResponse listado paginado de solicitudes.
type StockRequestListResponse struct {
	Items []StockRequestResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}
