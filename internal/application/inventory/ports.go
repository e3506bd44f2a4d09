package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// MovementReport datos del reporte del libro de movimientos.
type MovementReport struct {
	Title       string
	ProductID   string
	From, To    *time.Time
	GeneratedAt time.Time
	Movements   []*entity.StockMovement
	TotalIn     float64
	TotalOut    float64
}

// MovementReportGenerator genera la representación PDF del libro de movimientos.
type MovementReportGenerator interface {
	GenerateMovementReport(ctx context.Context, report MovementReport) ([]byte, error)
}
