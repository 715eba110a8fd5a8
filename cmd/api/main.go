package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-comercial/internal/application/documents"
	"github.com/jhoicas/gestion-comercial/internal/application/usecase"
	"github.com/jhoicas/gestion-comercial/internal/domain/document"
	"github.com/jhoicas/gestion-comercial/internal/infrastructure/cache"
	infrapdf "github.com/jhoicas/gestion-comercial/internal/infrastructure/pdf"
	"github.com/jhoicas/gestion-comercial/internal/infrastructure/postgres"
	"github.com/jhoicas/gestion-comercial/internal/infrastructure/ubl"
	httpRouter "github.com/jhoicas/gestion-comercial/internal/interfaces/http"
	"github.com/jhoicas/gestion-comercial/internal/observability/metrics"
	"github.com/jhoicas/gestion-comercial/pkg/config"
	"github.com/jhoicas/gestion-comercial/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")
	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET requerido")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	sourceRepo := postgres.NewSourceDocumentRepository(pool)
	gateway := postgres.NewDocumentGateway(postgres.NewTxRunner(pool))

	// Borradores: Redis si está configurado (varias instancias), si no memoria del proceso
	var (
		draftStore  documents.DraftStore
		submitGuard documents.SubmitGuard
	)
	if cfg.Redis.Addr != "" {
		rdb, err := cache.New(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		draftStore = cache.NewDraftStore(rdb, cfg.Redis.DraftTTL())
		submitGuard = cache.NewSubmitGuard(rdb, cfg.Redis.SubmitLockTTL())
		log.Info().Str("addr", cfg.Redis.Addr).Msg("borradores en Redis")
	} else {
		draftStore = documents.NewMemoryDraftStore()
		submitGuard = documents.NewMemorySubmitGuard()
		log.Warn().Msg("REDIS_ADDR vacío: borradores en memoria del proceso")
	}

	var docMetrics documents.Metrics
	if cfg.Metrics.Enabled {
		docMetrics = metrics.New(prometheus.DefaultRegisterer, cfg.App.Name)
	}

	policy := document.Policy{
		TaxRate:             decimal.NewFromFloat(cfg.Tax.IGVRate),
		RetentionRate:       decimal.NewFromFloat(cfg.Tax.RetentionRate),
		RetentionCreditOnly: cfg.Tax.RetentionCreditOnly,
		DefaultCreditDays:   cfg.Tax.DefaultCreditDays,
	}

	draftsUC := documents.NewDraftUseCase(
		draftStore, productRepo, customerRepo, warehouseRepo,
		documents.NewImporter(sourceRepo), policy, docMetrics,
	)
	submitUC := documents.NewSubmitUseCase(draftStore, submitGuard, gateway, policy, docMetrics, log)
	exportUC := documents.NewExportUseCase(
		draftsUC, customerRepo, warehouseRepo,
		infrapdf.NewMarotoPDFGenerator(cfg.App.Name), ubl.NewBuilder(),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Gestión Comercial API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	if cfg.Metrics.Enabled {
		app.Get(cfg.Metrics.Path, adaptor.HTTPHandler(promhttp.Handler()))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Drafts:     draftsUC,
		Submit:     submitUC,
		Export:     exportUC,
		ProductUC:  usecase.NewProductUseCase(productRepo),
		Warehouses: usecase.NewWarehouseUseCase(warehouseRepo),
		Customers:  usecase.NewCustomerUseCase(customerRepo),
		Log:        log,
		JWTSecret:  cfg.JWT.Secret,
		JWTIssuer:  cfg.JWT.Issuer,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
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

	log.Info().Msg("aplicación detenida")
}
