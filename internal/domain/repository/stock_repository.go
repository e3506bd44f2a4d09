package repository

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// StockProductRepository consulta el catálogo completo de stock.
type StockProductRepository interface {
	List(ctx context.Context) ([]*entity.StockProduct, error)
}
