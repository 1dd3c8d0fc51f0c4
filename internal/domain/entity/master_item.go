package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MasterItem representa un producto del catálogo maestro de una empresa.
// Clave natural: (company_id, name_key, part_no) con part_no vacío normalizado a "none".
// Serialized es un atributo explícito e inmutable: se fija en la primera recepción
// y decide si el stock se controla por unidades con código de barras o por cantidad.
type MasterItem struct {
	ID                string
	CompanyID         string
	ProductName       string
	NameKey           string // nombre normalizado (minúsculas, sin tildes) para matching
	PartNo            string // "none" si el proveedor no reporta referencia
	Category          string
	UnitMeasure       string
	TotalInStock      decimal.Decimal // contador agregado de bodega; nunca negativo
	Manufacturer      string
	LastPurchasePrice decimal.Decimal
	Serialized        bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
