package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/receiving"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/metrics"
)

// ReceivingHandler maneja las peticiones HTTP de recepciones de proveedor (protegido).
type ReceivingHandler struct {
	receiveUC *receiving.ReceiveStockUseCase
	queryUC   *receiving.QueryUseCase
}

// NewReceivingHandler construye el handler.
func NewReceivingHandler(receiveUC *receiving.ReceiveStockUseCase, queryUC *receiving.QueryUseCase) *ReceivingHandler {
	return &ReceivingHandler{receiveUC: receiveUC, queryUC: queryUC}
}

// ReceiveBatch godoc
// @Summary      Registrar recepción de proveedor
// @Description  Procesa la recepción completa en una transacción: resuelve/crea
//
//	productos maestros, registra unidades serializadas y suma el stock.
//	Un barcode duplicado o un modo de seriado que no coincide revierte todo.
//
// @Tags         receiving
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveBatchRequest  true  "supplier_name, reference_no, lines"
// @Success      201   {object}  dto.ReceiveBatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/receiving/batches [post]
func (h *ReceivingHandler) ReceiveBatch(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ReceiveBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	input := receiving.BatchInput{
		CompanyID:    companyID,
		ReceivedBy:   userID,
		SupplierName: in.SupplierName,
		ReferenceNo:  in.ReferenceNo,
	}
	for _, line := range in.Lines {
		l := receiving.LineInput{
			ProductName:   line.ProductName,
			PartNo:        line.PartNo,
			Category:      line.Category,
			UnitMeasure:   line.UnitMeasure,
			Manufacturer:  line.Manufacturer,
			PurchasePrice: line.PurchasePrice,
			Quantity:      line.Quantity,
		}
		for _, u := range line.Units {
			l.Units = append(l.Units, receiving.UnitInput{Barcode: u.Barcode, SKU: u.SKU})
		}
		input.Lines = append(input.Lines, l)
	}

	out, err := h.receiveUC.ReceiveBatch(c.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_BARCODE", Message: err.Error()})
		}
		if errors.Is(err, domain.ErrSerialityMismatch) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SERIALITY_MISMATCH", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	metrics.BatchesReceived.Inc()
	metrics.LedgerEntries.WithLabelValues("restock").Add(float64(len(in.Lines)))

	return c.Status(fiber.StatusCreated).JSON(dto.ReceiveBatchResponse{
		BatchID:    out.BatchID,
		BatchName:  out.BatchName,
		TotalItems: out.TotalItems,
		TotalValue: out.TotalValue,
	})
}

// ListBatches godoc
// @Summary      Listar recepciones
// @Tags         receiving
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.ReceivingBatchListResponse
// @Router       /api/receiving/batches [get]
func (h *ReceivingHandler) ListBatches(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	limit, offset := pageParams(c)
	batches, err := h.queryUC.ListBatches(c.Context(), companyID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := dto.ReceivingBatchListResponse{
		Items: make([]dto.ReceivingBatchResponse, 0, len(batches)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, b := range batches {
		out.Items = append(out.Items, dto.ReceivingBatchResponse{
			ID:           b.ID,
			SupplierName: b.SupplierName,
			ReferenceNo:  b.ReferenceNo,
			ReceivedBy:   b.ReceivedBy,
			TotalItems:   b.TotalItems,
			TotalValue:   b.TotalValue,
			CreatedAt:    b.CreatedAt,
		})
	}
	return c.JSON(out)
}

// GetBatchDetail godoc
// @Summary      Detalle de una recepción
// @Tags         receiving
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la recepción"
// @Success      200  {object}  dto.ReceivingBatchDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/receiving/batches/{id} [get]
func (h *ReceivingHandler) GetBatchDetail(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	detail, err := h.queryUC.GetBatchDetail(c.Context(), companyID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recepción no encontrada"})
		}
		if errors.Is(err, domain.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := dto.ReceivingBatchDetailResponse{
		Batch: dto.ReceivingBatchResponse{
			ID:           detail.Batch.ID,
			SupplierName: detail.Batch.SupplierName,
			ReferenceNo:  detail.Batch.ReferenceNo,
			ReceivedBy:   detail.Batch.ReceivedBy,
			TotalItems:   detail.Batch.TotalItems,
			TotalValue:   detail.Batch.TotalValue,
			CreatedAt:    detail.Batch.CreatedAt,
		},
		Items: make([]dto.ReceivingBatchItemResponse, 0, len(detail.Items)),
	}
	for _, item := range detail.Items {
		out.Items = append(out.Items, dto.ReceivingBatchItemResponse{
			ID:            item.Item.ID,
			MasterID:      item.Item.MasterID,
			ProductName:   item.ProductName,
			PartNo:        item.PartNo,
			Serialized:    item.Serialized,
			Quantity:      item.Item.Quantity,
			PurchasePrice: item.Item.PurchasePrice,
			SKU:           item.Item.SKU,
		})
	}
	return c.JSON(out)
}

// pageParams extrae limit/offset del query con los mismos topes en toda la API.
func pageParams(c *fiber.Ctx) (int, int) {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
