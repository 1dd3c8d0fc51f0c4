package catalog

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// UseCase lecturas del catálogo maestro y del registro de unidades.
type UseCase struct {
	masterRepo repository.MasterItemRepository
	unitRepo   repository.InventoryUnitRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(masterRepo repository.MasterItemRepository, unitRepo repository.InventoryUnitRepository) *UseCase {
	return &UseCase{masterRepo: masterRepo, unitRepo: unitRepo}
}

// List devuelve el catálogo de la empresa con paginación.
func (uc *UseCase) List(ctx context.Context, companyID string, limit, offset int) ([]*entity.MasterItem, error) {
	return uc.masterRepo.ListByCompany(companyID, limit, offset)
}

// ListUnits devuelve las unidades serializadas de un producto, validando empresa.
func (uc *UseCase) ListUnits(ctx context.Context, companyID, masterID string) ([]*entity.InventoryUnit, error) {
	master, err := uc.masterRepo.GetByID(masterID)
	if err != nil {
		return nil, err
	}
	if master == nil {
		return nil, domain.ErrNotFound
	}
	if master.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return uc.unitRepo.ListByMaster(masterID)
}
