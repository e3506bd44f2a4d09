package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/production"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// ProductionHandler ajustes de producción sobre lotes en curso.
type ProductionHandler struct {
	uc *production.ProductionUseCase
}

// NewProductionHandler construye el handler.
func NewProductionHandler(uc *production.ProductionUseCase) *ProductionHandler {
	return &ProductionHandler{uc: uc}
}

// UpdateProduced godoc
// @Summary      Registrar producción de un lote
// @Description  Actualiza produced (total o por variación) y opcionalmente el estado;
//
//	reconcilia el consumo de materia prima en la misma escritura.
//
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        dashboardId  path  string                       true  "Dashboard"
// @Param        lotId        path  string                       true  "Lote"
// @Param        body         body  dto.UpdateProductionRequest  true  "produced, variations[], status"
// @Success      200  {object}  dto.UpdateProductionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/dashboards/{dashboardId}/lots/{lotId}/production [put]
func (h *ProductionHandler) UpdateProduced(c *fiber.Ctx) error {
	var in dto.UpdateProductionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	update := production.ProductionUpdate{
		Produced:  in.Produced,
		Status:    entity.LotStatus(in.Status),
		UserID:    GetUserID(c),
		UserEmail: GetEmail(c),
	}
	for _, v := range in.Variations {
		update.Variations = append(update.Variations, production.VariationProduced{Key: v.VariationKey, Produced: v.Produced})
	}

	lot, summary, err := h.uc.UpdateProduced(c.UserContext(), c.Params("dashboardId"), c.Params("lotId"), update)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.UpdateProductionResponse{
		Lot:     lot,
		Summary: toSummaryResponse(summary.UpdatedProducts, summary.Movements, summary.Skipped),
	})
}
