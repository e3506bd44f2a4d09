package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// StockWriter escrituras de inventario que se acumulan en una unidad de trabajo.
type StockWriter interface {
	UpdateStockVariations(stockProductID string, variations []entity.StockVariation, updatedAt time.Time)
	CreateStockMovement(m *entity.StockMovement)
}

// WriteBatch unidad de trabajo todo-o-nada: las escrituras se aplican en Commit.
type WriteBatch interface {
	StockWriter
	// UpdateLot reemplaza el documento solo si la fila sigue en lot.Revision;
	// si otra escritura la cambió, Commit devuelve domain.ErrConflict y no aplica nada.
	UpdateLot(lot *entity.Lot)
	Len() int
	Commit(ctx context.Context) error
}

// BatchFactory crea unidades de trabajo nuevas.
type BatchFactory interface {
	NewBatch() WriteBatch
}
