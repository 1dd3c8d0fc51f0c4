package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// RecordUsageUseCase registra el consumo de materiales de un técnico contra una
// orden de trabajo: movimientos usage negativos y descuento de billetera en la
// misma transacción. No toca el stock de bodega (el material ya salió de ella).
type RecordUsageUseCase struct {
	txRunner TxRunner
}

// NewRecordUsageUseCase construye el caso de uso.
func NewRecordUsageUseCase(txRunner TxRunner) *RecordUsageUseCase {
	return &RecordUsageUseCase{txRunner: txRunner}
}

// UsageItem un consumo: producto (por nombre, la clave de la billetera) y cantidad.
type UsageItem struct {
	ItemName string
	Quantity decimal.Decimal
}

// UsageInput descriptor del consumo completo.
type UsageInput struct {
	CompanyID   string
	EngineerID  string
	WorkOrderID string
	RecordedBy  string
	Notes       string
	Items       []UsageItem
}

// RecordUsage valida y registra el consumo. Un saldo insuficiente en cualquier
// ítem revierte el registro completo: la billetera nunca queda negativa.
func (uc *RecordUsageUseCase) RecordUsage(ctx context.Context, input UsageInput) error {
	if input.CompanyID == "" || input.EngineerID == "" || input.WorkOrderID == "" || len(input.Items) == 0 {
		return domain.ErrInvalidInput
	}
	for _, item := range input.Items {
		if item.ItemName == "" || !item.Quantity.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	}

	now := time.Now()

	return uc.txRunner.RunLedger(ctx, func(
		ledgerRepo repository.LedgerRepository,
		walletRepo repository.WalletRepository,
	) error {
		for _, item := range input.Items {
			// Bloquea la fila de la billetera; el saldo nunca se recorta a cero,
			// un consumo mayor al saldo es un error de consistencia. La fila
			// existe si hay saldo, así que el FOR UPDATE sí serializa débitos.
			wallet, err := walletRepo.GetForUpdate(input.EngineerID, item.ItemName)
			if err != nil {
				return err
			}
			if wallet.Balance.LessThan(item.Quantity) {
				return domain.ErrInsufficientStock
			}

			// Categoría y maestro vienen de la billetera, que los capturó al
			// acreditar: el consumo identifica por nombre y no conoce el catálogo.
			entry := &entity.LedgerEntry{
				ID:           uuid.New().String(),
				EngineerID:   &input.EngineerID,
				CompanyID:    input.CompanyID,
				WorkOrderID:  &input.WorkOrderID,
				ItemName:     item.ItemName,
				ItemCategory: wallet.ItemCategory,
				Quantity:     item.Quantity.Neg(),
				Unit:         wallet.Unit,
				Type:         entity.TxTypeUsage,
				MasterID:     wallet.MasterID,
				Notes:        input.Notes,
				RecordedBy:   input.RecordedBy,
				CreatedAt:    now,
			}
			if err := ledgerRepo.Create(entry); err != nil {
				return err
			}

			wallet.UpdatedAt = now
			if err := walletRepo.ApplyDelta(wallet, item.Quantity.Neg()); err != nil {
				return err
			}
		}
		return nil
	})
}
