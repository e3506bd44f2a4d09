package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo configuración de etapas del pipeline.
type DashboardRepo struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository construye el adaptador.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepo {
	return &DashboardRepo{pool: pool}
}

// ListActiveOrdered lista las etapas no deshabilitadas ordenadas por posición.
func (r *DashboardRepo) ListActiveOrdered(ctx context.Context) ([]entity.Dashboard, error) {
	query := `
		SELECT id, name, position, active
		FROM dashboards
		WHERE active IS DISTINCT FROM false
		ORDER BY position ASC, id ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list dashboards: %w", err)
	}
	defer rows.Close()

	var list []entity.Dashboard
	for rows.Next() {
		var d entity.Dashboard
		if err := rows.Scan(&d.ID, &d.Name, &d.Position, &d.Active); err != nil {
			return nil, fmt.Errorf("scan dashboard: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}
