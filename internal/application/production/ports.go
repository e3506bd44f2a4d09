package production

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// MigrationTxRunner ejecuta fn dentro de una transacción con lectura-verificación-escritura
// sobre lotes. Si fn devuelve error se hace Rollback y no queda ninguna escritura.
type MigrationTxRunner interface {
	RunMigration(ctx context.Context, fn func(lots repository.LotTxRepository) error) error
}

// StageResolver resuelve la siguiente etapa activa del pipeline.
type StageResolver interface {
	Next(ctx context.Context, currentID string) *entity.Dashboard
}

// LotChange evento de actualización de un lote (snapshots antes/después).
type LotChange struct {
	DashboardID string
	LotID       string
	Before      *entity.Lot
	After       *entity.Lot
}
