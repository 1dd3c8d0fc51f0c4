package stockrequest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/internal/application/issuance"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// UseCase implementa el flujo de solicitudes de materiales:
// pending -> {approved, rejected}; approved -> fulfilled (vía entrega).
// rejected y fulfilled son terminales e inmutables.
type UseCase struct {
	requestRepo repository.StockRequestRepository
	txRunner    TxRunner
	issueUC     *issuance.IssueStockUseCase
}

// NewUseCase construye el caso de uso.
func NewUseCase(requestRepo repository.StockRequestRepository, txRunner TxRunner, issueUC *issuance.IssueStockUseCase) *UseCase {
	return &UseCase{requestRepo: requestRepo, txRunner: txRunner, issueUC: issueUC}
}

// CreateInput datos para crear una solicitud.
type CreateInput struct {
	CompanyID  string
	EngineerID string
	Notes      string
	Items      []entity.StockRequestItem
}

// Create registra una solicitud nueva en estado pending.
func (uc *UseCase) Create(ctx context.Context, input CreateInput) (*entity.StockRequest, error) {
	if input.CompanyID == "" || input.EngineerID == "" || len(input.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, item := range input.Items {
		if item.MasterID == "" || item.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
	}
	now := time.Now()
	request := &entity.StockRequest{
		ID:         uuid.New().String(),
		CompanyID:  input.CompanyID,
		EngineerID: input.EngineerID,
		Items:      input.Items,
		Status:     entity.RequestStatusPending,
		Notes:      input.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.requestRepo.Create(request); err != nil {
		return nil, err
	}
	return request, nil
}

// UpdateItems permite al solicitante editar ítems y notas mientras la solicitud
// esté pending. Cualquier otro estado es conflicto; otro técnico, forbidden.
func (uc *UseCase) UpdateItems(ctx context.Context, requestID, engineerID string, items []entity.StockRequestItem, notes string) (*entity.StockRequest, error) {
	if len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, item := range items {
		if item.MasterID == "" || item.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
	}
	request, err := uc.requestRepo.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, domain.ErrNotFound
	}
	if request.EngineerID != engineerID {
		return nil, domain.ErrForbidden
	}
	if !request.Editable() {
		return nil, domain.ErrRequestNotPending
	}
	request.Items = items
	request.Notes = notes
	if err := uc.requestRepo.Update(request); err != nil {
		return nil, err
	}
	return request, nil
}

// Process aplica la decisión del admin sobre una solicitud pending:
// approved o rejected, con notas de revisión.
func (uc *UseCase) Process(ctx context.Context, requestID, companyID, adminID, decision, adminNotes string) (*entity.StockRequest, error) {
	if decision != entity.RequestStatusApproved && decision != entity.RequestStatusRejected {
		return nil, domain.ErrInvalidInput
	}
	request, err := uc.requestRepo.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, domain.ErrNotFound
	}
	if request.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if request.Status != entity.RequestStatusPending {
		return nil, domain.ErrRequestNotPending
	}
	request.Status = decision
	request.AdminNotes = adminNotes
	request.ApprovedBy = &adminID
	if err := uc.requestRepo.Update(request); err != nil {
		return nil, err
	}
	return request, nil
}

// Fulfill ejecuta la entrega de una solicitud approved y la marca fulfilled en
// la misma transacción. Si la entrega falla (stock insuficiente, conflicto de
// unidad), el rollback deja la solicitud approved y el cumplimiento es reintentable.
func (uc *UseCase) Fulfill(ctx context.Context, requestID, companyID, adminID string) (*issuance.Result, error) {
	now := time.Now()
	batchID := uuid.New().String()
	var batchName string

	err := uc.txRunner.RunFulfillment(ctx, func(
		requestRepo repository.StockRequestRepository,
		masterRepo repository.MasterItemRepository,
		unitRepo repository.InventoryUnitRepository,
		ledgerRepo repository.LedgerRepository,
		walletRepo repository.WalletRepository,
	) error {
		request, err := requestRepo.GetByIDForUpdate(requestID)
		if err != nil {
			return err
		}
		if request == nil {
			return domain.ErrNotFound
		}
		if request.CompanyID != companyID {
			return domain.ErrForbidden
		}
		if request.Status != entity.RequestStatusApproved {
			return domain.ErrRequestNotApproved
		}
		batchName = "SOL-" + request.ID[:8]

		input := issuance.Input{
			CompanyID:  companyID,
			EngineerID: request.EngineerID,
			BatchName:  batchName,
			RecordedBy: adminID,
			Notes:      "cumplimiento de solicitud " + requestID,
		}
		for _, item := range request.Items {
			master, err := masterRepo.GetByID(item.MasterID)
			if err != nil {
				return err
			}
			if master == nil {
				return domain.ErrNotFound
			}
			in := issuance.ItemInput{MasterID: item.MasterID, Quantity: item.Quantity}
			if master.Serialized {
				// La solicitud pide cantidades; para productos serializados la
				// bodega elige las unidades concretas: las más antiguas in_stock.
				units, err := unitRepo.SelectAvailable(master.ID, int(item.Quantity))
				if err != nil {
					return err
				}
				if int64(len(units)) < item.Quantity {
					return fmt.Errorf("%s: %w", master.ProductName, domain.ErrInsufficientStock)
				}
				in.Quantity = 0
				for _, u := range units {
					in.Barcodes = append(in.Barcodes, u.Barcode)
				}
			}
			input.Items = append(input.Items, in)
		}
		if err := uc.issueUC.IssueInTx(masterRepo, unitRepo, ledgerRepo, walletRepo, input, batchID, now); err != nil {
			return err
		}

		request.Status = entity.RequestStatusFulfilled
		return requestRepo.Update(request)
	})
	if err != nil {
		return nil, err
	}
	return &issuance.Result{BatchID: batchID, BatchName: batchName}, nil
}

// GetByID devuelve una solicitud validando pertenencia a la empresa.
func (uc *UseCase) GetByID(ctx context.Context, requestID, companyID string) (*entity.StockRequest, error) {
	request, err := uc.requestRepo.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, domain.ErrNotFound
	}
	if request.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return request, nil
}

// ListByCompany lista solicitudes de la empresa, opcionalmente por estado.
func (uc *UseCase) ListByCompany(ctx context.Context, companyID, status string, limit, offset int) ([]*entity.StockRequest, error) {
	return uc.requestRepo.ListByCompany(companyID, status, limit, offset)
}

// ListByEngineer lista las solicitudes propias de un técnico.
func (uc *UseCase) ListByEngineer(ctx context.Context, engineerID string, limit, offset int) ([]*entity.StockRequest, error) {
	return uc.requestRepo.ListByEngineer(engineerID, limit, offset)
}
