package repository

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// DashboardRepository lista las etapas del pipeline ordenadas por posición.
type DashboardRepository interface {
	ListActiveOrdered(ctx context.Context) ([]entity.Dashboard, error)
}
