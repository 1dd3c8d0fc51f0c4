package issuance

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// VoucherUseCase genera el comprobante PDF de una entrega reconstruyéndola
// desde los movimientos de ledger que comparten el batch id.
type VoucherUseCase struct {
	ledgerRepo repository.LedgerRepository
	generator  VoucherGenerator
}

// NewVoucherUseCase construye el caso de uso.
func NewVoucherUseCase(ledgerRepo repository.LedgerRepository, generator VoucherGenerator) *VoucherUseCase {
	return &VoucherUseCase{ledgerRepo: ledgerRepo, generator: generator}
}

// GenerateForBatch arma el comprobante de la entrega batchID. Solo aplica a
// batches de entrega (movimientos con técnico); un batch de recepción no tiene
// comprobante. Si onlyEngineer no es vacío, el batch debe pertenecer a ese
// técnico: los técnicos solo descargan sus propios comprobantes.
func (uc *VoucherUseCase) GenerateForBatch(ctx context.Context, companyID, batchID, onlyEngineer string) ([]byte, error) {
	entries, err := uc.ledgerRepo.ListByBatch(batchID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, domain.ErrNotFound
	}
	if entries[0].CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if entries[0].EngineerID == nil {
		return nil, domain.ErrInvalidInput
	}
	if onlyEngineer != "" && *entries[0].EngineerID != onlyEngineer {
		return nil, domain.ErrForbidden
	}

	data := VoucherData{
		BatchID:    batchID,
		BatchName:  entries[0].BatchName,
		EngineerID: *entries[0].EngineerID,
		IssuedAt:   entries[0].CreatedAt.Format("2006-01-02 15:04"),
	}
	for _, e := range entries {
		data.Lines = append(data.Lines, VoucherLine{
			ItemName: e.ItemName,
			Quantity: e.Quantity.String(),
			Unit:     e.Unit,
		})
	}
	return uc.generator.GenerateVoucher(data)
}
