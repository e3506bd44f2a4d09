package repository

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// ProductCatalogRepository expone el catálogo de productos de cada dashboard.
// GetByDashboard devuelve (nil, nil) si el dashboard no tiene catálogo.
type ProductCatalogRepository interface {
	GetByDashboard(ctx context.Context, dashboardID string) (*entity.ProductCatalog, error)
}
