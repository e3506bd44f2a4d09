package production

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Produccion-api/internal/application/inventory"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	domainprod "github.com/jhoicas/Produccion-api/internal/domain/production"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// VariationProduced cantidad producida informada para una variación, identificada por
// su clave estable (la misma que devuelve BuildVariationKey).
type VariationProduced struct {
	Key      string
	Produced int
}

// ProductionUpdate ajuste de producción de un lote.
type ProductionUpdate struct {
	Produced   *int
	Variations []VariationProduced
	Status     entity.LotStatus // vacío = sin cambio
	UserID     string
	UserEmail  string
}

// ProductionUseCase registra avances de producción sobre un lote en curso y reconcilia
// el consumo de materia prima: deshace lo aplicado con las cantidades anteriores y
// aplica las nuevas, en una sola unidad de trabajo junto con el lote.
type ProductionUseCase struct {
	lots      repository.LotRepository
	catalogs  repository.ProductCatalogRepository
	stock     repository.StockProductRepository
	batches   repository.BatchFactory
	movements *inventory.ApplyMovementsUseCase
	log       zerolog.Logger
	now       func() time.Time
}

// NewProductionUseCase construye el caso de uso.
func NewProductionUseCase(
	lots repository.LotRepository,
	catalogs repository.ProductCatalogRepository,
	stock repository.StockProductRepository,
	batches repository.BatchFactory,
	movements *inventory.ApplyMovementsUseCase,
	log zerolog.Logger,
) *ProductionUseCase {
	return &ProductionUseCase{
		lots:      lots,
		catalogs:  catalogs,
		stock:     stock,
		batches:   batches,
		movements: movements,
		log:       log.With().Str("component", "production").Logger(),
		now:       time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *ProductionUseCase) WithClock(now func() time.Time) *ProductionUseCase {
	uc.now = now
	return uc
}

// UpdateProduced aplica el ajuste y devuelve el lote actualizado y el resumen de
// movimientos. Un cambio de estado a completado queda en el documento y dispara la
// migración a través del feed de cambios.
func (uc *ProductionUseCase) UpdateProduced(ctx context.Context, dashboardID, lotID string, in ProductionUpdate) (*entity.Lot, inventory.MovementSummary, error) {
	var summary inventory.MovementSummary
	if strings.TrimSpace(in.UserID) == "" {
		return nil, summary, domain.ErrUnauthorized
	}
	if in.Produced != nil && *in.Produced < 0 {
		return nil, summary, fmt.Errorf("%w: produced negativo", domain.ErrInvalidInput)
	}
	if in.Status != "" && !in.Status.IsOpen() && !in.Status.IsCompleted() {
		return nil, summary, fmt.Errorf("%w: estado %q desconocido", domain.ErrInvalidInput, in.Status)
	}

	lot, err := uc.lots.Get(ctx, dashboardID, lotID)
	if err != nil {
		return nil, summary, err
	}
	if lot == nil {
		return nil, summary, domain.ErrNotFound
	}
	if lot.Status.IsCompleted() {
		return nil, summary, fmt.Errorf("%w: el lote ya fue completado", domain.ErrConflict)
	}

	updated := lot.Clone()
	if err := applyUpdate(updated, in); err != nil {
		return nil, summary, err
	}
	now := uc.now().UTC()
	updated.UpdatedBy = in.UserID
	updated.UpdatedByEmail = in.UserEmail
	if updated.Status == entity.LotStatusOngoing && updated.StartedAt == nil {
		started := now
		updated.StartedAt = &started
	}
	if updated.Status.IsCompleted() && updated.CompletedAt == nil {
		completed := now
		updated.CompletedAt = &completed
	}

	details := domainprod.BuildMovementDetails(
		domainprod.BuildProductionDetails(lot),
		domainprod.BuildProductionDetails(updated),
	)
	consumption, err := uc.consumption(ctx, dashboardID, details)
	if err != nil {
		return nil, summary, err
	}

	batch := uc.batches.NewBatch()
	batch.UpdateLot(updated)
	if len(consumption) > 0 {
		stock, err := uc.stock.List(ctx)
		if err != nil {
			return nil, summary, fmt.Errorf("catálogo de stock: %w", err)
		}
		summary = uc.movements.Apply(batch, consumption, stock, inventory.ApplyOptions{
			UserID:        in.UserID,
			UserEmail:     in.UserEmail,
			Timestamp:     now,
			SourceEntryID: ProductionSourceEntryID(dashboardID, lotID),
		})
	}
	if err := batch.Commit(ctx); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			uc.log.Warn().Err(err).Str("dashboard_id", dashboardID).Str("lot_id", lotID).Msg("lote modificado durante el ajuste de producción")
		}
		return nil, inventory.MovementSummary{}, err
	}
	updated.Revision++

	uc.log.Info().
		Str("dashboard_id", dashboardID).
		Str("lot_id", lotID).
		Int("movements", summary.Movements).
		Msg("producción actualizada")
	return updated, summary, nil
}

func (uc *ProductionUseCase) consumption(ctx context.Context, dashboardID string, details []domainprod.ProductionDetail) (domainprod.Consumption, error) {
	if len(details) == 0 {
		return nil, nil
	}
	catalog, err := uc.catalogs.GetByDashboard(ctx, dashboardID)
	if err != nil {
		return nil, fmt.Errorf("catálogo del dashboard %s: %w", dashboardID, err)
	}
	if catalog == nil || len(catalog.Products) == 0 {
		return nil, nil
	}
	return domainprod.ApplyConsumption(details, domainprod.NewCatalog(catalog.Products), dashboardID), nil
}

func applyUpdate(lot *entity.Lot, in ProductionUpdate) error {
	if in.Produced != nil {
		lot.Produced = entity.NewNumber(*in.Produced)
	}
	for _, vp := range in.Variations {
		if vp.Produced < 0 {
			return fmt.Errorf("%w: produced negativo en %q", domain.ErrInvalidInput, vp.Key)
		}
		idx := -1
		for i, v := range lot.Variations {
			if domainprod.BuildVariationKey(v, i) == vp.Key {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("%w: variación %q inexistente", domain.ErrInvalidInput, vp.Key)
		}
		lot.Variations[idx].Produced = entity.NewNumber(vp.Produced)
	}
	if in.Status != "" {
		lot.Status = in.Status
	}
	return nil
}

// ProductionSourceEntryID correlaciona los movimientos de un ajuste con el lote.
func ProductionSourceEntryID(dashboardID, lotID string) string {
	return "lot-production:" + dashboardID + ":" + lotID
}
