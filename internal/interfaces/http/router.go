package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/catalog"
	"github.com/jhoicas/Almacen-api/internal/application/issuance"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/application/receiving"
	"github.com/jhoicas/Almacen-api/internal/application/stockrequest"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ReceiveUC      *receiving.ReceiveStockUseCase
	ReceiveQueryUC *receiving.QueryUseCase
	IssueUC        *issuance.IssueStockUseCase
	ReturnUC       *issuance.ReturnUnitUseCase
	VoucherUC      *issuance.VoucherUseCase
	UsageUC        *ledger.RecordUsageUseCase
	LedgerQueryUC  *ledger.QueryUseCase
	StockRequestUC *stockrequest.UseCase
	CatalogUC      *catalog.UseCase
	JWTSecret      string
}

// Router registra las rutas de la API. Todas requieren Bearer Token; el rol
// del token decide qué operaciones de escritura están permitidas.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	warehouse := RequireRole(RoleAdmin, RoleBodeguero)
	adminOnly := RequireRole(RoleAdmin)

	// Recepciones de proveedor (bodega)
	recGroup := api.Group("/receiving")
	receivingHandler := NewReceivingHandler(deps.ReceiveUC, deps.ReceiveQueryUC)
	recGroup.Post("/batches", warehouse, receivingHandler.ReceiveBatch)
	recGroup.Get("/batches", receivingHandler.ListBatches)
	recGroup.Get("/batches/:id", receivingHandler.GetBatchDetail)

	// Entregas a técnicos y comprobantes
	issuanceHandler := NewIssuanceHandler(deps.IssueUC, deps.ReturnUC, deps.VoucherUC)
	api.Post("/issuance", warehouse, issuanceHandler.IssueStock)
	api.Get("/issuance/:batchId/voucher", issuanceHandler.GetVoucher)

	// Devolución de unidades serializadas (bodega)
	api.Post("/units/:barcode/return", warehouse, issuanceHandler.ReturnUnit)

	// Consumos, billeteras y reportes
	ledgerHandler := NewLedgerHandler(deps.UsageUC, deps.LedgerQueryUC)
	api.Post("/usage", RequireRole(RoleAdmin, RoleTecnico), ledgerHandler.RecordUsage)
	api.Get("/wallets/:engineerId", ledgerHandler.GetWallet)
	api.Get("/wallets/:engineerId/history", ledgerHandler.GetWalletHistory)
	api.Get("/reports/consumption", warehouse, ledgerHandler.GetConsumptionReport)
	api.Get("/reports/consumption/export", warehouse, ledgerHandler.ExportConsumptionReport)

	// Solicitudes de materiales
	reqGroup := api.Group("/stock-requests")
	stockRequestHandler := NewStockRequestHandler(deps.StockRequestUC)
	reqGroup.Post("/", stockRequestHandler.Create)
	reqGroup.Get("/", stockRequestHandler.List)
	reqGroup.Get("/:id", stockRequestHandler.GetByID)
	reqGroup.Put("/:id", stockRequestHandler.Update)
	reqGroup.Post("/:id/process", adminOnly, stockRequestHandler.Process)
	reqGroup.Post("/:id/fulfill", adminOnly, stockRequestHandler.Fulfill)

	// Catálogo maestro
	catGroup := api.Group("/catalog")
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	catGroup.Get("/", catalogHandler.List)
	catGroup.Get("/:id/units", catalogHandler.ListUnits)
}
