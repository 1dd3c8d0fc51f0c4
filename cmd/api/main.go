package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Almacen-api/internal/application/catalog"
	"github.com/jhoicas/Almacen-api/internal/application/issuance"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/application/receiving"
	"github.com/jhoicas/Almacen-api/internal/application/stockrequest"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Almacen-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/report"
	httpRouter "github.com/jhoicas/Almacen-api/internal/interfaces/http"
	"github.com/jhoicas/Almacen-api/pkg/config"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicación")

	if err := postgres.RunMigrations(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migraciones de base de datos")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	batchRepo := postgres.NewReceivingBatchRepository(pool)
	masterRepo := postgres.NewMasterItemRepository(pool)
	unitRepo := postgres.NewInventoryUnitRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	walletRepo := postgres.NewWalletRepository(pool)
	requestRepo := postgres.NewStockRequestRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	voucherGenerator := infrapdf.NewMarotoVoucherGenerator()
	excelExporter := report.NewExcelExporter()

	receiveUC := receiving.NewReceiveStockUseCase(txRunner)
	receiveQueryUC := receiving.NewQueryUseCase(batchRepo)
	issueUC := issuance.NewIssueStockUseCase(txRunner)
	returnUC := issuance.NewReturnUnitUseCase(txRunner)
	voucherUC := issuance.NewVoucherUseCase(ledgerRepo, voucherGenerator)
	usageUC := ledger.NewRecordUsageUseCase(txRunner)
	ledgerQueryUC := ledger.NewQueryUseCase(ledgerRepo, walletRepo, excelExporter)
	stockRequestUC := stockrequest.NewUseCase(requestRepo, txRunner, issueUC)
	catalogUC := catalog.NewUseCase(masterRepo, unitRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Almacén API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ReceiveUC:      receiveUC,
		ReceiveQueryUC: receiveQueryUC,
		IssueUC:        issueUC,
		ReturnUC:       returnUC,
		VoucherUC:      voucherUC,
		UsageUC:        usageUC,
		LedgerQueryUC:  ledgerQueryUC,
		StockRequestUC: stockRequestUC,
		CatalogUC:      catalogUC,
		JWTSecret:      cfg.JWT.Secret,
	})

	// Listener de métricas Prometheus, separado del API.
	var metricsSrv *metrics.Server
	if cfg.Metrics.Enabled {
		metricsSrv = metrics.NewServer(cfg.Metrics.Addr)
		mlog := log.Component("metrics")
		go func() {
			if err := metricsSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				mlog.Error().Err(err).Msg("servidor de métricas finalizado")
			}
		}()
	}

	httpLog := log.Component("http")
	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			httpLog.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("apagado del servidor de métricas")
		}
	}

	log.Info().Msg("aplicación detenida")
}
