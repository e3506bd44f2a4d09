package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Produccion-api/internal/application/auth"
	"github.com/jhoicas/Produccion-api/internal/application/inventory"
	"github.com/jhoicas/Produccion-api/internal/application/production"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Migration     *production.LotMigrationUseCase
	Production    *production.ProductionUseCase
	Dashboards    *production.DashboardOrder
	Movements     *inventory.MovementReportUseCase
	AdminPassword *auth.AdminPasswordUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Feed de cambios de lote (solo cuentas de servicio o admin)
	triggerHandler := NewTriggerHandler(deps.Migration)
	api.Post("/triggers/lots/:dashboardId/:lotId",
		RequireRole(entity.RoleAdmin, entity.RoleService), triggerHandler.LotUpdated)

	// Etapas del pipeline y producción
	dashboards := api.Group("/dashboards")
	dashboardHandler := NewDashboardHandler(deps.Dashboards)
	dashboards.Get("/order", dashboardHandler.GetOrder)
	dashboards.Post("/order/invalidate", RequireRole(entity.RoleAdmin), dashboardHandler.Invalidate)
	dashboards.Get("/:id/next", dashboardHandler.GetNext)

	productionHandler := NewProductionHandler(deps.Production)
	dashboards.Put("/:dashboardId/lots/:lotId/production", productionHandler.UpdateProduced)

	// Libro de movimientos
	stock := api.Group("/stock")
	stockHandler := NewStockHandler(deps.Movements)
	stock.Get("/movements", stockHandler.ListMovements)
	stock.Get("/movements/report", stockHandler.DownloadReport)

	// Funciones administrativas
	adminHandler := NewAdminHandler(deps.AdminPassword)
	api.Post("/admin/verify-password", adminHandler.VerifyPassword)
}
