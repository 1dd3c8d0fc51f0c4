package issuance

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// ReturnUnitUseCase devuelve una unidad serializada de un técnico a bodega:
// fulfilled -> in_stock, limpia el holder, incrementa el contador del maestro
// en uno y anota los movimientos de ledger de ambos lados en una transacción.
type ReturnUnitUseCase struct {
	txRunner TxRunner
}

// NewReturnUnitUseCase construye el caso de uso.
func NewReturnUnitUseCase(txRunner TxRunner) *ReturnUnitUseCase {
	return &ReturnUnitUseCase{txRunner: txRunner}
}

// ReturnUnit procesa la devolución del barcode dado. companyID y recordedBy
// vienen del token del actor que registra la devolución en bodega.
func (uc *ReturnUnitUseCase) ReturnUnit(ctx context.Context, companyID, recordedBy, barcode string) error {
	if barcode == "" {
		return domain.ErrInvalidInput
	}

	now := time.Now()

	return uc.txRunner.RunIssuance(ctx, func(
		masterRepo repository.MasterItemRepository,
		unitRepo repository.InventoryUnitRepository,
		ledgerRepo repository.LedgerRepository,
		walletRepo repository.WalletRepository,
	) error {
		unit, err := unitRepo.GetByBarcode(barcode)
		if err != nil {
			return err
		}
		if unit == nil {
			return domain.ErrNotFound
		}
		if unit.Status != entity.UnitStatusFulfilled || unit.CurrentHolderID == nil {
			return fmt.Errorf("barcode %s: %w", barcode, domain.ErrConflict)
		}
		holderID := *unit.CurrentHolderID

		master, err := masterRepo.GetByID(unit.MasterID)
		if err != nil {
			return err
		}
		if master == nil {
			return domain.ErrNotFound
		}
		if master.CompanyID != companyID {
			return domain.ErrForbidden
		}

		// CAS fulfilled -> in_stock: cero filas significa que otro request ganó.
		affected, err := unitRepo.ReturnUnit(barcode)
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("barcode %s: %w", barcode, domain.ErrConflict)
		}

		one := decimal.NewFromInt(1)
		if err := masterRepo.AdjustStock(master.ID, one); err != nil {
			return err
		}

		// Lado bodega: entrada return positiva, sin técnico.
		warehouseEntry := &entity.LedgerEntry{
			CompanyID:    companyID,
			ItemName:     master.ProductName,
			ItemCategory: master.Category,
			Quantity:     one,
			Unit:         master.UnitMeasure,
			Type:         entity.TxTypeReturn,
			MasterID:     &master.ID,
			Notes:        fmt.Sprintf("devolución unidad %s", barcode),
			RecordedBy:   recordedBy,
			CreatedAt:    now,
		}
		if err := ledgerRepo.Create(warehouseEntry); err != nil {
			return err
		}

		// Lado técnico: ajuste negativo que descuenta la unidad de su billetera.
		engineerEntry := &entity.LedgerEntry{
			EngineerID:   &holderID,
			CompanyID:    companyID,
			ItemName:     master.ProductName,
			ItemCategory: master.Category,
			Quantity:     one.Neg(),
			Unit:         master.UnitMeasure,
			Type:         entity.TxTypeAdjustment,
			MasterID:     &master.ID,
			Notes:        fmt.Sprintf("devolución unidad %s a bodega", barcode),
			RecordedBy:   recordedBy,
			CreatedAt:    now,
		}
		if err := ledgerRepo.Create(engineerEntry); err != nil {
			return err
		}

		return creditWallet(walletRepo, holderID, master, one.Neg(), now)
	})
}
