package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.ProductCatalogRepository = (*ProductCatalogRepo)(nil)

// ProductCatalogRepo catálogo de productos (con BOM) por dashboard, guardado como JSONB.
type ProductCatalogRepo struct {
	pool *pgxpool.Pool
}

// NewProductCatalogRepository construye el adaptador.
func NewProductCatalogRepository(pool *pgxpool.Pool) *ProductCatalogRepo {
	return &ProductCatalogRepo{pool: pool}
}

// GetByDashboard devuelve (nil, nil) si el dashboard no tiene catálogo.
func (r *ProductCatalogRepo) GetByDashboard(ctx context.Context, dashboardID string) (*entity.ProductCatalog, error) {
	var data []byte
	err := r.pool.QueryRow(ctx, `SELECT data FROM product_catalogs WHERE dashboard_id = $1`, dashboardID).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product catalog: %w", err)
	}
	var catalog entity.ProductCatalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("decodificar catálogo %s: %w", dashboardID, err)
	}
	catalog.DashboardID = dashboardID
	return &catalog, nil
}
