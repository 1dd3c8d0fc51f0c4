package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/stockrequest"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/metrics"
)

// StockRequestHandler maneja el flujo de solicitudes de materiales (protegido).
type StockRequestHandler struct {
	uc *stockrequest.UseCase
}

// NewStockRequestHandler construye el handler.
func NewStockRequestHandler(uc *stockrequest.UseCase) *StockRequestHandler {
	return &StockRequestHandler{uc: uc}
}

// Create godoc
// @Summary      Crear solicitud de materiales
// @Tags         stock-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockRequestRequest  true  "items, notes"
// @Success      201   {object}  dto.StockRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock-requests [post]
func (h *StockRequestHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateStockRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	request, err := h.uc.Create(c.Context(), stockrequest.CreateInput{
		CompanyID:  companyID,
		EngineerID: userID,
		Notes:      in.Notes,
		Items:      toRequestItems(in.Items),
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(toStockRequestResponse(request))
}

// Update godoc
// @Summary      Editar solicitud propia (solo pending)
// @Tags         stock-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.UpdateStockRequestRequest  true  "items, notes"
// @Success      200   {object}  dto.StockRequestResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock-requests/{id} [put]
func (h *StockRequestHandler) Update(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.UpdateStockRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	request, err := h.uc.UpdateItems(c.Context(), id, userID, toRequestItems(in.Items), in.Notes)
	if err != nil {
		return stockRequestError(c, err)
	}
	return c.JSON(toStockRequestResponse(request))
}

// Process godoc
// @Summary      Aprobar o rechazar una solicitud pending
// @Tags         stock-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.ProcessStockRequestRequest  true  "decision (approved|rejected), admin_notes"
// @Success      200   {object}  dto.StockRequestResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock-requests/{id}/process [post]
func (h *StockRequestHandler) Process(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.ProcessStockRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	request, err := h.uc.Process(c.Context(), id, companyID, userID, in.Decision, in.AdminNotes)
	if err != nil {
		return stockRequestError(c, err)
	}
	return c.JSON(toStockRequestResponse(request))
}

// Fulfill godoc
// @Summary      Cumplir una solicitud aprobada
// @Description  Ejecuta la entrega y marca la solicitud fulfilled en una
//
//	transacción. Si la entrega falla, la solicitud queda approved y
//	el cumplimiento es reintentable.
//
// @Tags         stock-requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.IssueStockResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock-requests/{id}/fulfill [post]
func (h *StockRequestHandler) Fulfill(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.Fulfill(c.Context(), id, companyID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUnitNotAvailable) {
			metrics.UnitConflicts.Inc()
		}
		return stockRequestError(c, err)
	}
	metrics.Issuances.Inc()
	return c.JSON(dto.IssueStockResponse{BatchID: out.BatchID, BatchName: out.BatchName})
}

// GetByID godoc
// @Summary      Obtener solicitud por ID
// @Tags         stock-requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.StockRequestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-requests/{id} [get]
func (h *StockRequestHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	request, err := h.uc.GetByID(c.Context(), id, companyID)
	if err != nil {
		return stockRequestError(c, err)
	}
	// Un técnico solo ve sus propias solicitudes.
	if GetRole(c) == RoleTecnico && request.EngineerID != GetUserID(c) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	}
	return c.JSON(toStockRequestResponse(request))
}

// List godoc
// @Summary      Listar solicitudes
// @Description  Admin y bodeguero ven las de la empresa (filtro opcional por
//
//	estado); un técnico solo las suyas.
//
// @Tags         stock-requests
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending|approved|rejected|fulfilled"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {object}  dto.StockRequestListResponse
// @Router       /api/stock-requests [get]
func (h *StockRequestHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	limit, offset := pageParams(c)

	var (
		requests []*entity.StockRequest
		err      error
	)
	if GetRole(c) == RoleTecnico {
		requests, err = h.uc.ListByEngineer(c.Context(), userID, limit, offset)
	} else {
		requests, err = h.uc.ListByCompany(c.Context(), companyID, c.Query("status"), limit, offset)
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	out := dto.StockRequestListResponse{
		Items: make([]dto.StockRequestResponse, 0, len(requests)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, r := range requests {
		out.Items = append(out.Items, toStockRequestResponse(r))
	}
	return c.JSON(out)
}

// stockRequestError mapea los errores de dominio del flujo de solicitudes a HTTP.
func stockRequestError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "solicitud no encontrada"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrRequestNotPending):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOT_PENDING", Message: "la solicitud ya no está pendiente"})
	case errors.Is(err, domain.ErrRequestNotApproved):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOT_APPROVED", Message: "la solicitud no está aprobada"})
	case errors.Is(err, domain.ErrUnitNotAvailable):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "UNIT_NOT_AVAILABLE", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func toRequestItems(items []dto.StockRequestItemRequest) []entity.StockRequestItem {
	out := make([]entity.StockRequestItem, 0, len(items))
	for _, item := range items {
		out = append(out, entity.StockRequestItem{MasterID: item.MasterID, Quantity: item.Quantity})
	}
	return out
}

func toStockRequestResponse(r *entity.StockRequest) dto.StockRequestResponse {
	items := make([]dto.StockRequestItemRequest, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, dto.StockRequestItemRequest{MasterID: item.MasterID, Quantity: item.Quantity})
	}
	return dto.StockRequestResponse{
		ID:         r.ID,
		EngineerID: r.EngineerID,
		Items:      items,
		Status:     r.Status,
		Notes:      r.Notes,
		AdminNotes: r.AdminNotes,
		ApprovedBy: r.ApprovedBy,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}
