package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// MovementFilter filtros del libro de movimientos.
type MovementFilter struct {
	ProductID string
	From, To  *time.Time
	Limit     int
	Offset    int
}

// StockMovementRepository consulta el libro de movimientos (solo lectura; se escribe por lote).
type StockMovementRepository interface {
	List(ctx context.Context, f MovementFilter) ([]*entity.StockMovement, error)
}
