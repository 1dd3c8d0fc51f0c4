package receiving

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// QueryUseCase lecturas del historial de recepciones.
type QueryUseCase struct {
	batchRepo repository.ReceivingBatchRepository
}

// NewQueryUseCase construye el caso de uso de lecturas.
func NewQueryUseCase(batchRepo repository.ReceivingBatchRepository) *QueryUseCase {
	return &QueryUseCase{batchRepo: batchRepo}
}

// ListBatches devuelve las recepciones de la empresa, más reciente primero.
func (uc *QueryUseCase) ListBatches(ctx context.Context, companyID string, limit, offset int) ([]*entity.ReceivingBatch, error) {
	return uc.batchRepo.ListByCompany(companyID, limit, offset)
}

// BatchDetail cabecera de la recepción más sus líneas con producto resuelto.
type BatchDetail struct {
	Batch *entity.ReceivingBatch
	Items []repository.BatchItemDetail
}

// GetBatchDetail devuelve una recepción con sus líneas, validando empresa.
func (uc *QueryUseCase) GetBatchDetail(ctx context.Context, companyID, batchID string) (*BatchDetail, error) {
	batch, err := uc.batchRepo.GetByID(batchID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, domain.ErrNotFound
	}
	if batch.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	items, err := uc.batchRepo.ListItems(batchID)
	if err != nil {
		return nil, err
	}
	return &BatchDetail{Batch: batch, Items: items}, nil
}
