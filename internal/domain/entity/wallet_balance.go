package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletBalance es la proyección del saldo actual de un técnico para un producto.
// No tiene existencia propia: se mantiene en la misma transacción que cada
// movimiento de ledger con engineer_id, y siempre debe igualar la suma firmada
// de esos movimientos.
//
// ItemCategory y MasterID se capturan al acreditar (la entrega conoce el
// maestro) para que los consumos posteriores, que identifican por nombre,
// puedan anotarlos en sus movimientos.
type WalletBalance struct {
	EngineerID   string
	ItemName     string
	ItemCategory string
	Balance      decimal.Decimal
	Unit         string
	MasterID     *string
	UpdatedAt    time.Time
}
