package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceivingBatch representa una recepción de proveedor procesada como unidad atómica.
// TotalItems y TotalValue se fijan al final con las sumas realmente procesadas.
type ReceivingBatch struct {
	ID           string
	CompanyID    string
	SupplierName string
	ReferenceNo  string // número de remisión / orden de compra (string opaco)
	ReceivedBy   string
	TotalItems   decimal.Decimal
	TotalValue   decimal.Decimal
	CreatedAt    time.Time
}

// ReceivingBatchItem una línea de producto dentro de una recepción.
// Quantity es la cantidad resuelta: número de unidades registradas si la línea
// trae códigos de barras, o la cantidad declarada si es a granel.
type ReceivingBatchItem struct {
	ID            string
	BatchID       string
	MasterID      string
	Quantity      decimal.Decimal
	PurchasePrice decimal.Decimal
	SKU           string
}
