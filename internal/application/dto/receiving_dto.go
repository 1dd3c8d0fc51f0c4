package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiveUnitRequest un barcode (y sku opcional) de una línea serializada.
type ReceiveUnitRequest struct {
	Barcode string `json:"barcode" validate:"required"`
	SKU     string `json:"sku"`
}

// ReceiveLineRequest una línea de producto de la recepción. Exactamente uno de
// quantity (granel) o units (serializada) debe venir informado.
type ReceiveLineRequest struct {
	ProductName   string               `json:"product_name" validate:"required,min=1,max=200"`
	PartNo        string               `json:"part_no"`
	Category      string               `json:"category"`
	UnitMeasure   string               `json:"unit_measure"`
	Manufacturer  string               `json:"manufacturer"`
	PurchasePrice decimal.Decimal      `json:"purchase_price"`
	Quantity      int64                `json:"quantity"`
	Units         []ReceiveUnitRequest `json:"units"`
}

// ReceiveBatchRequest body para POST /api/receiving/batches.
type ReceiveBatchRequest struct {
	SupplierName string               `json:"supplier_name"`
	ReferenceNo  string               `json:"reference_no"`
	Lines        []ReceiveLineRequest `json:"lines" validate:"required,min=1"`
}

// ReceiveBatchResponse resumen de la recepción confirmada.
type ReceiveBatchResponse struct {
	BatchID    string          `json:"batch_id"`
	BatchName  string          `json:"batch_name"`
	TotalItems decimal.Decimal `json:"total_items"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// ReceivingBatchResponse cabecera de una recepción en listados.
type ReceivingBatchResponse struct {
	ID           string          `json:"id"`
	SupplierName string          `json:"supplier_name"`
	ReferenceNo  string          `json:"reference_no"`
	ReceivedBy   string          `json:"received_by"`
	TotalItems   decimal.Decimal `json:"total_items"`
	TotalValue   decimal.Decimal `json:"total_value"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ReceivingBatchItemResponse una línea de la recepción con producto resuelto.
type ReceivingBatchItemResponse struct {
	ID            string          `json:"id"`
	MasterID      string          `json:"master_id"`
	ProductName   string          `json:"product_name"`
	PartNo        string          `json:"part_no"`
	Serialized    bool            `json:"serialized"`
	Quantity      decimal.Decimal `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SKU           string          `json:"sku"`
}

// ReceivingBatchDetailResponse recepción completa: cabecera + líneas.
type ReceivingBatchDetailResponse struct {
	Batch ReceivingBatchResponse       `json:"batch"`
	Items []ReceivingBatchItemResponse `json:"items"`
}

// ReceivingBatchListResponse listado paginado de recepciones.
type ReceivingBatchListResponse struct {
	Items []ReceivingBatchResponse `json:"items"`
	Page  PageResponse             `json:"page"`
}
