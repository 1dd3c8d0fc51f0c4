package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/issuance"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/metrics"
)

// IssuanceHandler maneja las peticiones HTTP de entregas a técnicos y
// devoluciones de unidades (protegido).
type IssuanceHandler struct {
	issueUC   *issuance.IssueStockUseCase
	returnUC  *issuance.ReturnUnitUseCase
	voucherUC *issuance.VoucherUseCase
}

// NewIssuanceHandler construye el handler.
func NewIssuanceHandler(issueUC *issuance.IssueStockUseCase, returnUC *issuance.ReturnUnitUseCase, voucherUC *issuance.VoucherUseCase) *IssuanceHandler {
	return &IssuanceHandler{issueUC: issueUC, returnUC: returnUC, voucherUC: voucherUC}
}

// IssueStock godoc
// @Summary      Entregar materiales a un técnico
// @Description  Mueve stock de bodega a la billetera del técnico en una
//
//	transacción. Un barcode ya entregado aborta la entrega completa.
//
// @Tags         issuance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IssueStockRequest  true  "engineer_id, items (master_id + quantity o barcodes)"
// @Success      201   {object}  dto.IssueStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/issuance [post]
func (h *IssuanceHandler) IssueStock(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.IssueStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	input := issuance.Input{
		CompanyID:  companyID,
		EngineerID: in.EngineerID,
		BatchName:  in.BatchName,
		RecordedBy: userID,
		Notes:      in.Notes,
	}
	for _, item := range in.Items {
		input.Items = append(input.Items, issuance.ItemInput{
			MasterID: item.MasterID,
			Quantity: item.Quantity,
			Barcodes: item.Barcodes,
		})
	}

	out, err := h.issueUC.IssueStock(c.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrUnitNotAvailable) {
			metrics.UnitConflicts.Inc()
		}
		return issuanceError(c, err)
	}

	metrics.Issuances.Inc()
	metrics.LedgerEntries.WithLabelValues("restock").Add(float64(len(in.Items)))

	return c.Status(fiber.StatusCreated).JSON(dto.IssueStockResponse{BatchID: out.BatchID, BatchName: out.BatchName})
}

// GetVoucher godoc
// @Summary      Comprobante PDF de una entrega
// @Tags         issuance
// @Security     Bearer
// @Produce      application/pdf
// @Param        batchId  path  string  true  "ID del batch de entrega"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/issuance/{batchId}/voucher [get]
func (h *IssuanceHandler) GetVoucher(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	batchID := c.Params("batchId")
	if batchID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "batchId es requerido"})
	}
	// Los técnicos solo descargan comprobantes de sus propias entregas.
	onlyEngineer := ""
	if GetRole(c) == RoleTecnico {
		onlyEngineer = GetUserID(c)
	}
	pdfBytes, err := h.voucherUC.GenerateForBatch(c.Context(), companyID, batchID, onlyEngineer)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "entrega no encontrada"})
		}
		if errors.Is(err, domain.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "NOT_ISSUANCE", Message: "el batch no es una entrega"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="comprobante-`+batchID+`.pdf"`)
	return c.Send(pdfBytes)
}

// ReturnUnit godoc
// @Summary      Devolver una unidad serializada a bodega
// @Description  fulfilled -> in_stock: limpia el holder, suma el stock y anota
//
//	los movimientos de ambos lados en una transacción.
//
// @Tags         issuance
// @Security     Bearer
// @Produce      json
// @Param        barcode  path  string  true  "Barcode de la unidad"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/units/{barcode}/return [post]
func (h *IssuanceHandler) ReturnUnit(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	barcode := c.Params("barcode")
	if barcode == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_BARCODE", Message: "barcode es requerido"})
	}
	if err := h.returnUC.ReturnUnit(c.Context(), companyID, userID, barcode); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "unidad no encontrada"})
		}
		if errors.Is(err, domain.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
		}
		if errors.Is(err, domain.ErrConflict) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOT_FULFILLED", Message: "la unidad no está entregada a ningún técnico"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	metrics.LedgerEntries.WithLabelValues("return").Inc()
	metrics.LedgerEntries.WithLabelValues("adjustment").Inc()
	return c.JSON(dto.MessageResponse{Message: "unidad devuelta a bodega"})
}

// issuanceError mapea los errores de dominio de una entrega a su estado HTTP.
func issuanceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrUnitNotAvailable):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "UNIT_NOT_AVAILABLE", Message: err.Error()})
	case errors.Is(err, domain.ErrSerialityMismatch):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SERIALITY_MISMATCH", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
