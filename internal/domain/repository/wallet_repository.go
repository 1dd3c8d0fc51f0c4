package repository

import (
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// WalletRepository define el puerto para la proyección de saldos por técnico+producto.
// Usado dentro de transacciones para mantenerla en lockstep con el ledger.
type WalletRepository interface {
	Get(engineerID, itemName string) (*entity.WalletBalance, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE). Sirve para
	// serializar débitos sobre una fila existente; la creación de la fila no se
	// puede bloquear, por eso las escrituras pasan por ApplyDelta.
	GetForUpdate(engineerID, itemName string) (*entity.WalletBalance, error)
	// ApplyDelta suma delta (firmado) al saldo de ref de forma atómica,
	// insertando la fila si no existe. Un saldo resultante negativo retorna
	// ErrInsufficientStock. Los campos descriptivos de ref (unidad, categoría,
	// maestro) se registran en el insert.
	ApplyDelta(ref *entity.WalletBalance, delta decimal.Decimal) error
	ListByEngineer(engineerID string) ([]*entity.WalletBalance, error)
}
