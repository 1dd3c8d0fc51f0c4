package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/catalog"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
)

// CatalogHandler lecturas del catálogo maestro y del registro de unidades (protegido).
type CatalogHandler struct {
	uc *catalog.UseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *catalog.UseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// List godoc
// @Summary      Listar catálogo maestro
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.MasterItemListResponse
// @Router       /api/catalog [get]
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	limit, offset := pageParams(c)
	items, err := h.uc.List(c.Context(), companyID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := dto.MasterItemListResponse{
		Items: make([]dto.MasterItemResponse, 0, len(items)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, m := range items {
		out.Items = append(out.Items, dto.MasterItemResponse{
			ID:                m.ID,
			ProductName:       m.ProductName,
			PartNo:            m.PartNo,
			Category:          m.Category,
			UnitMeasure:       m.UnitMeasure,
			TotalInStock:      m.TotalInStock,
			Manufacturer:      m.Manufacturer,
			LastPurchasePrice: m.LastPurchasePrice,
			Serialized:        m.Serialized,
			CreatedAt:         m.CreatedAt,
			UpdatedAt:         m.UpdatedAt,
		})
	}
	return c.JSON(out)
}

// ListUnits godoc
// @Summary      Unidades serializadas de un producto
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto maestro"
// @Success      200  {array}   dto.InventoryUnitResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/catalog/{id}/units [get]
func (h *CatalogHandler) ListUnits(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	units, err := h.uc.ListUnits(c.Context(), companyID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
		if errors.Is(err, domain.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.InventoryUnitResponse, 0, len(units))
	for _, u := range units {
		out = append(out, dto.InventoryUnitResponse{
			ID:              u.ID,
			MasterID:        u.MasterID,
			Barcode:         u.Barcode,
			SKU:             u.SKU,
			Status:          u.Status,
			CurrentHolderID: u.CurrentHolderID,
			ReceivedAt:      u.ReceivedAt,
			IssuedAt:        u.IssuedAt,
		})
	}
	return c.JSON(out)
}
