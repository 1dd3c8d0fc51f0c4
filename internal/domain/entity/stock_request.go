package entity

import "time"

// Estados de una solicitud de materiales.
// pending -> {approved, rejected}; approved -> fulfilled. rejected y fulfilled son terminales.
const (
	RequestStatusPending   = "pending"
	RequestStatusApproved  = "approved"
	RequestStatusRejected  = "rejected"
	RequestStatusFulfilled = "fulfilled"
)

// StockRequest es la solicitud formal de materiales de un técnico,
// sujeta a aprobación de un admin antes de entregarse.
// Solo el solicitante puede editarla y solo mientras esté pending.
type StockRequest struct {
	ID         string
	CompanyID  string
	EngineerID string
	Items      []StockRequestItem
	Status     string
	Notes      string
	AdminNotes string
	ApprovedBy *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// StockRequestItem una línea producto+cantidad dentro de la solicitud (persistida como JSONB).
type StockRequestItem struct {
	MasterID string `json:"master_id"`
	Quantity int64  `json:"quantity"`
}

// Editable indica si el solicitante aún puede modificar la solicitud.
func (r *StockRequest) Editable() bool {
	return r.Status == RequestStatusPending
}

// Terminal indica si la solicitud ya no admite ninguna transición.
func (r *StockRequest) Terminal() bool {
	return r.Status == RequestStatusRejected || r.Status == RequestStatusFulfilled
}
