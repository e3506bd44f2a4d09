package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/production"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// DashboardHandler expone el orden de etapas del pipeline.
type DashboardHandler struct {
	order *production.DashboardOrder
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(order *production.DashboardOrder) *DashboardHandler {
	return &DashboardHandler{order: order}
}

// GetOrder godoc
// @Summary      Orden de etapas activas
// @Tags         dashboards
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardOrderResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/dashboards/order [get]
func (h *DashboardHandler) GetOrder(c *fiber.Ctx) error {
	ordered := h.order.Ordered(c.UserContext())
	out := dto.DashboardOrderResponse{Dashboards: make([]dto.DashboardResponse, 0, len(ordered))}
	for _, d := range ordered {
		out.Dashboards = append(out.Dashboards, toDashboardResponse(d))
	}
	return c.JSON(out)
}

// GetNext godoc
// @Summary      Siguiente etapa activa
// @Tags         dashboards
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Dashboard actual"
// @Success      200  {object}  dto.DashboardResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/dashboards/{id}/next [get]
func (h *DashboardHandler) GetNext(c *fiber.Ctx) error {
	next := h.order.Next(c.UserContext(), c.Params("id"))
	if next == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NO_NEXT_STAGE", Message: "no hay etapa siguiente activa"})
	}
	return c.JSON(toDashboardResponse(*next))
}

// Invalidate godoc
// @Summary      Descartar la caché del orden de etapas
// @Tags         dashboards
// @Security     Bearer
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/dashboards/order/invalidate [post]
func (h *DashboardHandler) Invalidate(c *fiber.Ctx) error {
	h.order.Invalidate()
	return c.SendStatus(fiber.StatusNoContent)
}

func toDashboardResponse(d entity.Dashboard) dto.DashboardResponse {
	return dto.DashboardResponse{ID: d.ID, Name: d.Name, Position: d.Position}
}
