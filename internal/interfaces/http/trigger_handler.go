package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/production"
)

// TriggerHandler recibe eventos de cambio de lote desde un feed externo.
type TriggerHandler struct {
	migration *production.LotMigrationUseCase
}

// NewTriggerHandler construye el handler.
func NewTriggerHandler(migration *production.LotMigrationUseCase) *TriggerHandler {
	return &TriggerHandler{migration: migration}
}

// LotUpdated godoc
// @Summary      Evento de actualización de lote
// @Description  Procesa el par de snapshots antes/después. Responde 200 con el resultado
//
//	incluso si la migración se omite o falla, para no provocar reintentos.
//
// @Tags         triggers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        dashboardId  path  string                true  "Dashboard del lote"
// @Param        lotId        path  string                true  "Id del lote"
// @Param        body         body  dto.LotChangeRequest  true  "before, after"
// @Success      200  {object}  dto.MigrationResultResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/triggers/lots/{dashboardId}/{lotId} [post]
func (h *TriggerHandler) LotUpdated(c *fiber.Ctx) error {
	var in dto.LotChangeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res := h.migration.HandleLotUpdate(c.UserContext(), production.LotChange{
		DashboardID: c.Params("dashboardId"),
		LotID:       c.Params("lotId"),
		Before:      in.Before,
		After:       in.After,
	})
	return c.JSON(dto.MigrationResultResponse{
		Outcome:                string(res.Outcome),
		DestinationDashboardID: res.DestinationDashboardID,
		DestinationLotID:       res.DestinationLotID,
		Consumption:            toSummaryResponse(res.Consumption.UpdatedProducts, res.Consumption.Movements, res.Consumption.Skipped),
	})
}

func toSummaryResponse(updated, movements, skipped int) dto.MovementSummaryResponse {
	return dto.MovementSummaryResponse{UpdatedProducts: updated, Movements: movements, Skipped: skipped}
}
