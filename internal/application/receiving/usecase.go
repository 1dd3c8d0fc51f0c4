package receiving

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/pkg/normalize"
)

// ReceiveStockUseCase procesa una recepción de proveedor como unidad atómica:
// resuelve/crea registros maestros, registra unidades serializadas, incrementa
// stock y anota un movimiento restock por línea, todo en una sola transacción.
type ReceiveStockUseCase struct {
	txRunner TxRunner
}

// NewReceiveStockUseCase construye el caso de uso.
func NewReceiveStockUseCase(txRunner TxRunner) *ReceiveStockUseCase {
	return &ReceiveStockUseCase{txRunner: txRunner}
}

// UnitInput un par barcode/sku de una línea serializada.
type UnitInput struct {
	Barcode string
	SKU     string
}

// LineInput una línea de producto de la recepción. Exactamente uno de
// Quantity (granel) o Units (serializada) debe venir informado.
type LineInput struct {
	ProductName   string
	PartNo        string
	Category      string
	UnitMeasure   string
	Manufacturer  string
	PurchasePrice decimal.Decimal
	Quantity      int64
	Units         []UnitInput
}

// BatchInput descriptor de la recepción completa.
type BatchInput struct {
	CompanyID    string
	ReceivedBy   string
	SupplierName string
	ReferenceNo  string
	Lines        []LineInput
}

// BatchResult resumen de la recepción procesada.
type BatchResult struct {
	BatchID    string
	BatchName  string
	TotalItems decimal.Decimal
	TotalValue decimal.Decimal
}

// ReceiveBatch valida el descriptor y procesa la recepción dentro de una transacción.
// Cualquier fallo de línea (barcode duplicado, modo de seriado que no coincide)
// revierte la recepción completa: ninguna recepción parcial persiste.
func (uc *ReceiveStockUseCase) ReceiveBatch(ctx context.Context, input BatchInput) (*BatchResult, error) {
	if input.CompanyID == "" || input.ReceivedBy == "" || len(input.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, line := range input.Lines {
		if line.ProductName == "" {
			return nil, domain.ErrInvalidInput
		}
		serialized := len(line.Units) > 0
		if serialized && line.Quantity > 0 {
			return nil, domain.ErrInvalidInput
		}
		if !serialized && line.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		for _, u := range line.Units {
			if u.Barcode == "" {
				return nil, domain.ErrInvalidInput
			}
		}
	}

	now := time.Now()
	batchID := uuid.New().String()
	batchName := input.ReferenceNo
	if batchName == "" {
		batchName = "REC-" + batchID[:8]
	}

	result := &BatchResult{BatchID: batchID, BatchName: batchName}

	err := uc.txRunner.RunReceiving(ctx, func(
		masterRepo repository.MasterItemRepository,
		unitRepo repository.InventoryUnitRepository,
		batchRepo repository.ReceivingBatchRepository,
		ledgerRepo repository.LedgerRepository,
	) error {
		batch := &entity.ReceivingBatch{
			ID:           batchID,
			CompanyID:    input.CompanyID,
			SupplierName: input.SupplierName,
			ReferenceNo:  input.ReferenceNo,
			ReceivedBy:   input.ReceivedBy,
			TotalItems:   decimal.Zero,
			TotalValue:   decimal.Zero,
			CreatedAt:    now,
		}
		if err := batchRepo.CreateBatch(batch); err != nil {
			return err
		}

		totalItems := decimal.Zero
		totalValue := decimal.Zero

		for _, line := range input.Lines {
			master, qty, err := uc.processLine(masterRepo, unitRepo, input.CompanyID, line, now)
			if err != nil {
				return err
			}

			item := &entity.ReceivingBatchItem{
				ID:            uuid.New().String(),
				BatchID:       batchID,
				MasterID:      master.ID,
				Quantity:      qty,
				PurchasePrice: line.PurchasePrice,
				SKU:           lineSKU(line),
			}
			if err := batchRepo.CreateItem(item); err != nil {
				return err
			}

			// Un movimiento restock por línea, nivel bodega (sin técnico), todos
			// compartiendo el batch id y el nombre derivado de la remisión.
			entry := &entity.LedgerEntry{
				CompanyID:    input.CompanyID,
				BatchID:      &batchID,
				BatchName:    batchName,
				ItemName:     master.ProductName,
				ItemCategory: master.Category,
				Quantity:     qty,
				Unit:         master.UnitMeasure,
				Type:         entity.TxTypeRestock,
				MasterID:     &master.ID,
				Notes:        fmt.Sprintf("recepción %s", input.SupplierName),
				RecordedBy:   input.ReceivedBy,
				CreatedAt:    now,
			}
			if err := ledgerRepo.Create(entry); err != nil {
				return err
			}

			totalItems = totalItems.Add(qty)
			totalValue = totalValue.Add(qty.Mul(line.PurchasePrice))
		}

		if err := batchRepo.UpdateTotals(batchID, totalItems, totalValue); err != nil {
			return err
		}
		result.TotalItems = totalItems
		result.TotalValue = totalValue
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// processLine resuelve o crea el registro maestro, registra unidades si aplica y
// suma el stock con el primitivo único AdjustStock. Devuelve la cantidad resuelta.
func (uc *ReceiveStockUseCase) processLine(
	masterRepo repository.MasterItemRepository,
	unitRepo repository.InventoryUnitRepository,
	companyID string,
	line LineInput,
	now time.Time,
) (*entity.MasterItem, decimal.Decimal, error) {
	serialized := len(line.Units) > 0
	nameKey := normalize.Key(line.ProductName)
	partNo := normalize.PartNo(line.PartNo)

	master, err := masterRepo.GetByNaturalKey(companyID, nameKey, partNo)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if master == nil {
		master = &entity.MasterItem{
			ID:                uuid.New().String(),
			CompanyID:         companyID,
			ProductName:       line.ProductName,
			NameKey:           nameKey,
			PartNo:            partNo,
			Category:          line.Category,
			UnitMeasure:       defaultUnit(line.UnitMeasure),
			TotalInStock:      decimal.Zero,
			Manufacturer:      line.Manufacturer,
			LastPurchasePrice: line.PurchasePrice,
			Serialized:        serialized,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := masterRepo.Create(master); err != nil {
			return nil, decimal.Zero, err
		}
	} else {
		// El modo de seriado es inmutable desde la primera recepción: una línea
		// a granel de un producto serializado (o al revés) es un conflicto.
		if master.Serialized != serialized {
			return nil, decimal.Zero, fmt.Errorf("%s: %w", line.ProductName, domain.ErrSerialityMismatch)
		}
		if err := masterRepo.UpdatePurchaseInfo(master.ID, line.PurchasePrice, line.Manufacturer); err != nil {
			return nil, decimal.Zero, err
		}
		master.LastPurchasePrice = line.PurchasePrice
	}

	var qty decimal.Decimal
	if serialized {
		units := make([]*entity.InventoryUnit, 0, len(line.Units))
		for _, u := range line.Units {
			units = append(units, &entity.InventoryUnit{
				ID:         uuid.New().String(),
				MasterID:   master.ID,
				Barcode:    u.Barcode,
				SKU:        u.SKU,
				Status:     entity.UnitStatusInStock,
				ReceivedAt: now,
			})
		}
		if err := unitRepo.RegisterUnits(units); err != nil {
			return nil, decimal.Zero, err
		}
		qty = decimal.NewFromInt(int64(len(units)))
	} else {
		qty = decimal.NewFromInt(line.Quantity)
	}

	if err := masterRepo.AdjustStock(master.ID, qty); err != nil {
		return nil, decimal.Zero, err
	}
	return master, qty, nil
}

func lineSKU(line LineInput) string {
	if len(line.Units) > 0 {
		return line.Units[0].SKU
	}
	return ""
}

func defaultUnit(unit string) string {
	if unit == "" {
		return "und"
	}
	return unit
}
