package issuance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// IssueStockUseCase mueve stock de bodega a la billetera de un técnico de forma
// transaccional. Maneja los dos caminos de descuento: unidades serializadas
// (transición de estado con compare-and-swap) y granel (decremento directo).
// Ambos convergen en el mismo primitivo AdjustStock del catálogo maestro.
type IssueStockUseCase struct {
	txRunner TxRunner
}

// NewIssueStockUseCase construye el caso de uso.
func NewIssueStockUseCase(txRunner TxRunner) *IssueStockUseCase {
	return &IssueStockUseCase{txRunner: txRunner}
}

// ItemInput un ítem a entregar: producto maestro y cantidad, o barcodes explícitos.
type ItemInput struct {
	MasterID string
	Quantity int64
	Barcodes []string
}

// Input descriptor de la entrega completa.
type Input struct {
	CompanyID  string
	EngineerID string
	BatchName  string
	RecordedBy string
	Notes      string
	Items      []ItemInput
}

// Result resumen de la entrega procesada.
type Result struct {
	BatchID   string
	BatchName string
}

// IssueStock valida y ejecuta la entrega en una transacción. Un barcode ya
// entregado aborta el ítem completo (y con él toda la entrega): conflicto, no no-op.
func (uc *IssueStockUseCase) IssueStock(ctx context.Context, input Input) (*Result, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	now := time.Now()
	batchID := uuid.New().String()
	if input.BatchName == "" {
		input.BatchName = "ENT-" + batchID[:8]
	}

	err := uc.txRunner.RunIssuance(ctx, func(
		masterRepo repository.MasterItemRepository,
		unitRepo repository.InventoryUnitRepository,
		ledgerRepo repository.LedgerRepository,
		walletRepo repository.WalletRepository,
	) error {
		return uc.IssueInTx(masterRepo, unitRepo, ledgerRepo, walletRepo, input, batchID, now)
	})
	if err != nil {
		return nil, err
	}
	return &Result{BatchID: batchID, BatchName: input.BatchName}, nil
}

// IssueInTx ejecuta la entrega usando los repositorios proporcionados (misma
// transacción del caller). Lo usa el flujo de solicitudes para cumplir una
// solicitud aprobada y marcarla fulfilled en una sola transacción.
func (uc *IssueStockUseCase) IssueInTx(
	masterRepo repository.MasterItemRepository,
	unitRepo repository.InventoryUnitRepository,
	ledgerRepo repository.LedgerRepository,
	walletRepo repository.WalletRepository,
	input Input,
	batchID string,
	now time.Time,
) error {
	for _, item := range input.Items {
		master, err := masterRepo.GetByID(item.MasterID)
		if err != nil {
			return err
		}
		if master == nil {
			return domain.ErrNotFound
		}
		if master.CompanyID != input.CompanyID {
			return domain.ErrForbidden
		}

		var qty decimal.Decimal
		if len(item.Barcodes) > 0 {
			qty, err = uc.issueSerialized(unitRepo, master, item.Barcodes, input.EngineerID, now)
		} else {
			qty, err = uc.issueBulk(master, item.Quantity)
		}
		if err != nil {
			return err
		}

		// Ambos caminos descuentan bodega por el mismo primitivo: sin mecanismos
		// implícitos que puedan divergir del camino a granel.
		if err := masterRepo.AdjustStock(master.ID, qty.Neg()); err != nil {
			return err
		}

		entry := &entity.LedgerEntry{
			EngineerID:   &input.EngineerID,
			CompanyID:    input.CompanyID,
			BatchID:      &batchID,
			BatchName:    input.BatchName,
			ItemName:     master.ProductName,
			ItemCategory: master.Category,
			Quantity:     qty,
			Unit:         master.UnitMeasure,
			Type:         entity.TxTypeRestock,
			MasterID:     &master.ID,
			Notes:        input.Notes,
			RecordedBy:   input.RecordedBy,
			CreatedAt:    now,
		}
		if err := ledgerRepo.Create(entry); err != nil {
			return err
		}

		if err := creditWallet(walletRepo, input.EngineerID, master, qty, now); err != nil {
			return err
		}
	}
	return nil
}

// issueSerialized transiciona las unidades in_stock -> fulfilled. El update
// condicional cuenta cuántas cambiaron: si alguna ya estaba entregada, el conteo
// queda corto y el ítem completo falla con conflicto.
func (uc *IssueStockUseCase) issueSerialized(
	unitRepo repository.InventoryUnitRepository,
	master *entity.MasterItem,
	barcodes []string,
	engineerID string,
	now time.Time,
) (decimal.Decimal, error) {
	if !master.Serialized {
		return decimal.Zero, fmt.Errorf("%s: %w", master.ProductName, domain.ErrSerialityMismatch)
	}
	for _, bc := range barcodes {
		unit, err := unitRepo.GetByBarcode(bc)
		if err != nil {
			return decimal.Zero, err
		}
		if unit == nil {
			return decimal.Zero, fmt.Errorf("barcode %s: %w", bc, domain.ErrNotFound)
		}
		if unit.MasterID != master.ID {
			return decimal.Zero, fmt.Errorf("barcode %s: %w", bc, domain.ErrInvalidInput)
		}
	}
	affected, err := unitRepo.IssueUnits(barcodes, engineerID, now)
	if err != nil {
		return decimal.Zero, err
	}
	if affected != int64(len(barcodes)) {
		return decimal.Zero, fmt.Errorf("%s: %w", master.ProductName, domain.ErrUnitNotAvailable)
	}
	return decimal.NewFromInt(int64(len(barcodes))), nil
}

// issueBulk valida la cantidad a granel; el decremento real lo hace AdjustStock,
// que rechaza atómicamente un resultado negativo.
func (uc *IssueStockUseCase) issueBulk(master *entity.MasterItem, quantity int64) (decimal.Decimal, error) {
	if master.Serialized {
		return decimal.Zero, fmt.Errorf("%s: %w", master.ProductName, domain.ErrSerialityMismatch)
	}
	if quantity <= 0 {
		return decimal.Zero, domain.ErrInvalidInput
	}
	return decimal.NewFromInt(quantity), nil
}

func creditWallet(
	walletRepo repository.WalletRepository,
	engineerID string,
	master *entity.MasterItem,
	qty decimal.Decimal,
	now time.Time,
) error {
	// Delta aditivo en un solo statement: dos entregas que crean la misma fila
	// en paralelo acumulan ambas, sin leer-modificar-escribir.
	return walletRepo.ApplyDelta(&entity.WalletBalance{
		EngineerID:   engineerID,
		ItemName:     master.ProductName,
		ItemCategory: master.Category,
		Unit:         master.UnitMeasure,
		MasterID:     &master.ID,
		UpdatedAt:    now,
	}, qty)
}

func validateInput(input Input) error {
	if input.CompanyID == "" || input.EngineerID == "" || len(input.Items) == 0 {
		return domain.ErrInvalidInput
	}
	for _, item := range input.Items {
		if item.MasterID == "" {
			return domain.ErrInvalidInput
		}
		if len(item.Barcodes) == 0 && item.Quantity <= 0 {
			return domain.ErrInvalidInput
		}
	}
	return nil
}
