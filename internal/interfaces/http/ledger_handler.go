package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/metrics"
)

// LedgerHandler maneja el registro de consumos, las billeteras de técnicos y
// los reportes de consumo (protegido).
type LedgerHandler struct {
	usageUC *ledger.RecordUsageUseCase
	queryUC *ledger.QueryUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(usageUC *ledger.RecordUsageUseCase, queryUC *ledger.QueryUseCase) *LedgerHandler {
	return &LedgerHandler{usageUC: usageUC, queryUC: queryUC}
}

// RecordUsage godoc
// @Summary      Registrar consumo contra orden de trabajo
// @Description  Descuenta la billetera del técnico y anota movimientos usage
//
//	negativos. Un saldo insuficiente revierte el registro completo.
//
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordUsageRequest  true  "engineer_id, work_order_id, items"
// @Success      201   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/usage [post]
func (h *LedgerHandler) RecordUsage(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RecordUsageRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	// Un técnico solo reporta su propio consumo; admin puede reportar por otros.
	if GetRole(c) == RoleTecnico && in.EngineerID != userID {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "solo puede reportar su propio consumo"})
	}

	input := ledger.UsageInput{
		CompanyID:   companyID,
		EngineerID:  in.EngineerID,
		WorkOrderID: in.WorkOrderID,
		RecordedBy:  userID,
		Notes:       in.Notes,
	}
	for _, item := range in.Items {
		input.Items = append(input.Items, ledger.UsageItem{ItemName: item.ItemName, Quantity: item.Quantity})
	}

	if err := h.usageUC.RecordUsage(c.Context(), input); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		if errors.Is(err, domain.ErrInsufficientStock) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_BALANCE", Message: "saldo insuficiente en la billetera"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	metrics.LedgerEntries.WithLabelValues("usage").Add(float64(len(in.Items)))
	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Message: "consumo registrado"})
}

// GetWallet godoc
// @Summary      Saldos actuales de un técnico
// @Tags         wallets
// @Security     Bearer
// @Produce      json
// @Param        engineerId  path  string  true  "ID del técnico"
// @Success      200  {array}   dto.WalletBalanceResponse
// @Router       /api/wallets/{engineerId} [get]
func (h *LedgerHandler) GetWallet(c *fiber.Ctx) error {
	engineerID, errResp := h.walletAccess(c)
	if errResp != nil {
		return errResp
	}
	balances, err := h.queryUC.GetWallet(c.Context(), engineerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.WalletBalanceResponse, 0, len(balances))
	for _, b := range balances {
		out = append(out, dto.WalletBalanceResponse{
			EngineerID:   b.EngineerID,
			ItemName:     b.ItemName,
			ItemCategory: b.ItemCategory,
			Balance:      b.Balance,
			Unit:         b.Unit,
			UpdatedAt:    b.UpdatedAt,
		})
	}
	return c.JSON(out)
}

// GetWalletHistory godoc
// @Summary      Historial de movimientos de un técnico
// @Tags         wallets
// @Security     Bearer
// @Produce      json
// @Param        engineerId  path   string  true   "ID del técnico"
// @Param        from        query  string  false  "Desde (RFC3339)"
// @Param        to          query  string  false  "Hasta (RFC3339)"
// @Param        limit       query  int     false  "Límite"   default(20)
// @Param        offset      query  int     false  "Offset"   default(0)
// @Success      200  {array}   dto.LedgerEntryResponse
// @Router       /api/wallets/{engineerId}/history [get]
func (h *LedgerHandler) GetWalletHistory(c *fiber.Ctx) error {
	engineerID, errResp := h.walletAccess(c)
	if errResp != nil {
		return errResp
	}
	from, to, err := dateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_DATE", Message: "fechas en formato RFC3339"})
	}
	limit, offset := pageParams(c)
	entries, err := h.queryUC.GetHistory(c.Context(), engineerID, from, to, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toLedgerEntryResponse(e))
	}
	return c.JSON(out)
}

// GetConsumptionReport godoc
// @Summary      Reporte de consumo agregado por producto
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Desde (RFC3339)"
// @Param        to    query  string  false  "Hasta (RFC3339)"
// @Success      200   {array}  dto.ConsumptionRowResponse
// @Router       /api/reports/consumption [get]
func (h *LedgerHandler) GetConsumptionReport(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	from, to, err := dateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_DATE", Message: "fechas en formato RFC3339"})
	}
	rows, err := h.queryUC.GetConsumptionReport(c.Context(), companyID, from, to)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.ConsumptionRowResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ConsumptionRowResponse{
			ItemName:     r.ItemName,
			ItemCategory: r.ItemCategory,
			Unit:         r.Unit,
			TotalUsed:    r.TotalUsed,
			Movements:    r.Movements,
		})
	}
	return c.JSON(out)
}

// ExportConsumptionReport godoc
// @Summary      Exportar reporte de consumo como XLSX
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        from  query  string  false  "Desde (RFC3339)"
// @Param        to    query  string  false  "Hasta (RFC3339)"
// @Success      200  {file}  binary
// @Router       /api/reports/consumption/export [get]
func (h *LedgerHandler) ExportConsumptionReport(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	from, to, err := dateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_DATE", Message: "fechas en formato RFC3339"})
	}
	fileBytes, err := h.queryUC.ExportConsumptionReport(c.Context(), companyID, from, to)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="consumo.xlsx"`)
	return c.Send(fileBytes)
}

// walletAccess valida que el actor pueda ver la billetera pedida: un técnico
// solo la suya, admin y bodeguero cualquiera.
func (h *LedgerHandler) walletAccess(c *fiber.Ctx) (string, error) {
	userID := GetUserID(c)
	if userID == "" {
		return "", c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	engineerID := c.Params("engineerId")
	if engineerID == "" {
		return "", c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "engineerId es requerido"})
	}
	if GetRole(c) == RoleTecnico && engineerID != userID {
		return "", c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "solo puede consultar su propia billetera"})
	}
	return engineerID, nil
}

func toLedgerEntryResponse(e *entity.LedgerEntry) dto.LedgerEntryResponse {
	return dto.LedgerEntryResponse{
		ID:           e.ID,
		EngineerID:   e.EngineerID,
		WorkOrderID:  e.WorkOrderID,
		BatchID:      e.BatchID,
		BatchName:    e.BatchName,
		ItemName:     e.ItemName,
		ItemCategory: e.ItemCategory,
		Quantity:     e.Quantity,
		Unit:         e.Unit,
		Type:         e.Type,
		Notes:        e.Notes,
		RecordedBy:   e.RecordedBy,
		CreatedAt:    e.CreatedAt,
	}
}

// dateRange parsea from/to opcionales del query en RFC3339.
func dateRange(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, nil, err
		}
		to = &t
	}
	return from, to, nil
}
