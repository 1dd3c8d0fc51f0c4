package repository

import (
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// InventoryUnitRepository define el puerto de persistencia para unidades serializadas.
type InventoryUnitRepository interface {
	// RegisterUnits inserta unidades nuevas en estado in_stock. Un barcode ya
	// existente (unicidad global) retorna domain.ErrDuplicate.
	RegisterUnits(units []*entity.InventoryUnit) error
	GetByBarcode(barcode string) (*entity.InventoryUnit, error)
	// IssueUnits transiciona in_stock -> fulfilled con update condicional
	// (compare-and-swap sobre status) y devuelve cuántas filas cambiaron.
	// El caller compara contra len(barcodes) para detectar conflictos.
	IssueUnits(barcodes []string, holderID string, at time.Time) (int64, error)
	// ReturnUnit transiciona fulfilled -> in_stock y limpia el holder (condicional).
	// Devuelve filas afectadas: 0 significa que la unidad no estaba fulfilled.
	ReturnUnit(barcode string) (int64, error)
	ListByMaster(masterID string) ([]*entity.InventoryUnit, error)
	// SelectAvailable devuelve hasta limit unidades in_stock del maestro, las
	// más antiguas primero. Puede devolver menos que limit.
	SelectAvailable(masterID string, limit int) ([]*entity.InventoryUnit, error)
	CountByMasterAndStatus(masterID, status string) (int64, error)
}
