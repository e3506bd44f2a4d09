package repository

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// LotRepository define el puerto de lectura/escritura de lotes fuera de transacción.
type LotRepository interface {
	Get(ctx context.Context, dashboardID, lotID string) (*entity.Lot, error)
	Update(ctx context.Context, lot *entity.Lot) error
}

// LotTxRepository opera dentro de la transacción de migración.
// GetForUpdate devuelve (nil, nil) si el documento no existe.
type LotTxRepository interface {
	GetForUpdate(ctx context.Context, dashboardID, lotID string) (*entity.Lot, error)
	Create(ctx context.Context, lot *entity.Lot) error
	Update(ctx context.Context, lot *entity.Lot) error
}
