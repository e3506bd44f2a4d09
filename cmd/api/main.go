package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/Produccion-api/docs"
	"github.com/jhoicas/Produccion-api/internal/application/auth"
	"github.com/jhoicas/Produccion-api/internal/application/inventory"
	"github.com/jhoicas/Produccion-api/internal/application/production"
	infrapdf "github.com/jhoicas/Produccion-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Produccion-api/internal/interfaces/http"
	"github.com/jhoicas/Produccion-api/pkg/config"
	"github.com/jhoicas/Produccion-api/pkg/logger"
)

// @title           Produccion API
// @version         1.0
// @description     Migración de lotes entre etapas y consumo de materia prima por BOM.
// @BasePath        /
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
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
		Bool("change_feed", cfg.Production.ChangeFeedEnabled).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	lotRepo := postgres.NewLotRepository(pool)
	dashboardRepo := postgres.NewDashboardRepository(pool)
	catalogRepo := postgres.NewProductCatalogRepository(pool)
	stockRepo := postgres.NewStockProductRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	applyMovements := inventory.NewApplyMovementsUseCase(log.Component("apply_movements"))
	dashboardOrder := production.NewDashboardOrder(dashboardRepo, cfg.Production.DashboardCacheTTL, log.Component("dashboard_order"))
	migrationUC := production.NewLotMigrationUseCase(
		dashboardOrder, txRunner, catalogRepo, stockRepo, txRunner, applyMovements,
		log.Component("lot_migration"),
	)
	productionUC := production.NewProductionUseCase(
		lotRepo, catalogRepo, stockRepo, txRunner, applyMovements,
		log.Component("production"),
	)
	movementReportUC := inventory.NewMovementReportUseCase(movementRepo, infrapdf.NewMarotoReportGenerator())
	adminPasswordUC := auth.NewAdminPasswordUseCase(cfg.Production.AdminPasswordSHA256, log.Component("admin_password"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Produccion API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Migration:     migrationUC,
		Production:    productionUC,
		Dashboards:    dashboardOrder,
		Movements:     movementReportUC,
		AdminPassword: adminPasswordUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	listenerDone := make(chan struct{})
	if cfg.Production.ChangeFeedEnabled {
		listener := postgres.NewLotChangeListener(pool, migrationUC,
			cfg.Production.ChangeFeedChannel, cfg.Production.WorkerPoolSize, log.Zerolog())
		go func() {
			defer close(listenerDone)
			if err := listener.Run(ctx); err != nil {
				log.Error().Err(err).Msg("listener de cambios de lote finalizado")
			}
		}()
	} else {
		close(listenerDone)
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	select {
	case <-listenerDone:
	case <-shutdownCtx.Done():
		log.Warn().Msg("el listener no terminó a tiempo")
	}

	log.Info().Msg("aplicación detenida")
}
