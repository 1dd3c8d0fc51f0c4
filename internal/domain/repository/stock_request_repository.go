package repository

import "github.com/jhoicas/Almacen-api/internal/domain/entity"

// StockRequestRepository define el puerto de persistencia para solicitudes de materiales.
type StockRequestRepository interface {
	Create(request *entity.StockRequest) error
	GetByID(id string) (*entity.StockRequest, error)
	// GetByIDForUpdate bloquea la fila (SELECT FOR UPDATE) para transiciones de estado.
	GetByIDForUpdate(id string) (*entity.StockRequest, error)
	Update(request *entity.StockRequest) error
	ListByCompany(companyID, status string, limit, offset int) ([]*entity.StockRequest, error)
	ListByEngineer(engineerID string, limit, offset int) ([]*entity.StockRequest, error)
}
