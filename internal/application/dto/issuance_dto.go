package dto

// IssueItemRequest un ítem a entregar: cantidad a granel o barcodes explícitos.
type IssueItemRequest struct {
	MasterID string   `json:"master_id" validate:"required"`
	Quantity int64    `json:"quantity"`
	Barcodes []string `json:"barcodes"`
}

// IssueStockRequest body para POST /api/issuance.
type IssueStockRequest struct {
	EngineerID string             `json:"engineer_id" validate:"required"`
	BatchName  string             `json:"batch_name"`
	Notes      string             `json:"notes"`
	Items      []IssueItemRequest `json:"items" validate:"required,min=1"`
}

// IssueStockResponse identifica la entrega confirmada.
type IssueStockResponse struct {
	BatchID   string `json:"batch_id"`
	BatchName string `json:"batch_name"`
}
