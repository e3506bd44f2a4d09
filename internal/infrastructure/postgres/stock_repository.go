package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.StockProductRepository = (*StockProductRepo)(nil)

// StockProductRepo productos de materia prima; las variaciones viven embebidas en JSONB.
type StockProductRepo struct {
	pool *pgxpool.Pool
}

// NewStockProductRepository construye el adaptador de stock.
func NewStockProductRepository(pool *pgxpool.Pool) *StockProductRepo {
	return &StockProductRepo{pool: pool}
}

// List devuelve el catálogo completo de stock.
func (r *StockProductRepo) List(ctx context.Context) ([]*entity.StockProduct, error) {
	query := `
		SELECT id, name, unit, variations, updated_at
		FROM stock_products
		ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stock products: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockProduct
	for rows.Next() {
		var (
			p    entity.StockProduct
			vars []byte
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Unit, &vars, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock product: %w", err)
		}
		if len(vars) > 0 {
			if err := json.Unmarshal(vars, &p.Variations); err != nil {
				return nil, fmt.Errorf("decodificar variaciones de %s: %w", p.ID, err)
			}
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
