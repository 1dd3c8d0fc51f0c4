package entity

import "time"

// Estados de una unidad física individual.
// in_stock -> fulfilled -> {in_stock (devuelta), consumed (terminal)}
const (
	UnitStatusInStock   = "in_stock"  // en bodega
	UnitStatusFulfilled = "fulfilled" // entregada a un técnico
	UnitStatusConsumed  = "consumed"  // consumida (terminal)
)

// InventoryUnit representa un ítem físico individual con código de barras,
// perteneciente a un MasterItem serializado. El barcode es único global
// (no por empresa): un escaneo debe resolver a una sola unidad.
type InventoryUnit struct {
	ID              string
	MasterID        string
	Barcode         string
	SKU             string
	Status          string
	CurrentHolderID *string // técnico que la tiene; solo si Status = fulfilled
	ReceivedAt      time.Time
	IssuedAt        *time.Time
}
