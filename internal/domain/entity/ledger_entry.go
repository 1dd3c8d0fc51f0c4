package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción del libro de movimientos.
const (
	TxTypeRestock    = "restock"    // entrada: recepción a bodega o entrega a técnico
	TxTypeUsage      = "usage"      // consumo contra orden de trabajo (negativo)
	TxTypeReturn     = "return"     // devolución a bodega (positivo, nivel bodega)
	TxTypeAdjustment = "adjustment" // ajuste manual (signo libre)
)

// LedgerEntry es un movimiento de cantidad firmado, inmutable una vez escrito.
// El ledger es la fuente de verdad de todos los saldos.
//
// EngineerID es nullable: los movimientos a nivel de bodega (recepción, lado
// bodega de una devolución) no pertenecen a la billetera de ningún técnico.
type LedgerEntry struct {
	ID           string
	EngineerID   *string
	CompanyID    string
	WorkOrderID  *string
	BatchID      *string
	BatchName    string
	ItemName     string
	ItemCategory string
	Quantity     decimal.Decimal // firmado: restock/return positivo, usage negativo
	Unit         string
	Type         string
	MasterID     *string
	Notes        string
	RecordedBy   string
	CreatedAt    time.Time
}
