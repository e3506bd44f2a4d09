package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/inventory"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// StockHandler consulta del libro de movimientos de stock.
type StockHandler struct {
	uc *inventory.MovementReportUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *inventory.MovementReportUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// ListMovements godoc
// @Summary      Libro de movimientos
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Producto de stock"
// @Param        from        query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        to          query  string  false  "Hasta (RFC3339 o YYYY-MM-DD)"
// @Param        limit       query  int     false  "Máximo 1000 (por defecto 100)"
// @Param        offset      query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.StockMovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	filter, err := parseMovementFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	list, err := h.uc.List(c.UserContext(), filter)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.StockMovementListResponse{
		Items: make([]dto.StockMovementResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}
	for _, m := range list {
		out.Items = append(out.Items, dto.StockMovementResponse{
			ID:            m.ID,
			ProductID:     m.ProductID,
			VariationID:   m.VariationID,
			Quantity:      m.Quantity,
			Type:          m.Type,
			User:          m.User,
			UserEmail:     m.UserEmail,
			Timestamp:     m.Timestamp,
			SourceEntryID: m.SourceEntryID,
		})
	}
	return c.JSON(out)
}

// DownloadReport godoc
// @Summary      Reporte PDF del libro de movimientos
// @Tags         stock
// @Security     Bearer
// @Produce      application/pdf
// @Param        product_id  query  string  false  "Producto de stock"
// @Param        from        query  string  false  "Desde"
// @Param        to          query  string  false  "Hasta"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/movements/report [get]
func (h *StockHandler) DownloadReport(c *fiber.Ctx) error {
	filter, err := parseMovementFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	pdf, name, err := h.uc.DownloadReport(c.UserContext(), filter)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	return c.Send(pdf)
}

func parseMovementFilter(c *fiber.Ctx) (repository.MovementFilter, error) {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return repository.MovementFilter{}, fmt.Errorf("paginación inválida")
	}
	page.DefaultPage()
	f := repository.MovementFilter{
		ProductID: c.Query("product_id"),
		Limit:     page.Limit,
		Offset:    page.Offset,
	}
	var err error
	if f.From, err = parseDateParam(c.Query("from"), false); err != nil {
		return f, fmt.Errorf("from inválido: %w", err)
	}
	if f.To, err = parseDateParam(c.Query("to"), true); err != nil {
		return f, fmt.Errorf("to inválido: %w", err)
	}
	return f, nil
}

// parseDateParam acepta RFC3339 o YYYY-MM-DD; una fecha sin hora usada como límite
// superior cubre el día completo.
func parseDateParam(v string, endOfDay bool) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
