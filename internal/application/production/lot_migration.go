package production

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Produccion-api/internal/application/inventory"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	domainprod "github.com/jhoicas/Produccion-api/internal/domain/production"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// MigrationOutcome resultado observable de procesar un evento de lote.
type MigrationOutcome string

const (
	OutcomeMissingSnapshot MigrationOutcome = "skipped_missing_snapshot"
	OutcomeNotEligible     MigrationOutcome = "skipped_not_eligible"
	OutcomeFinalStage      MigrationOutcome = "skipped_final_stage"
	OutcomeAlreadyMigrated MigrationOutcome = "skipped_already_migrated"
	OutcomeAlreadyLinked   MigrationOutcome = "already_linked"
	OutcomeConflict        MigrationOutcome = "conflict"
	OutcomeMigrated        MigrationOutcome = "migrated"
	OutcomeFailed          MigrationOutcome = "failed"
)

// MigrationResult detalle del procesamiento (respuesta del webhook, logs y tests).
type MigrationResult struct {
	Outcome                MigrationOutcome          `json:"outcome"`
	DestinationDashboardID string                    `json:"destinationDashboardId,omitempty"`
	DestinationLotID       string                    `json:"destinationLotId,omitempty"`
	Consumption            inventory.MovementSummary `json:"consumption"`
}

// maxCreateAttempts: un segundo intento relee el destino si otra ejecución lo creó en paralelo.
const maxCreateAttempts = 2

// LotMigrationUseCase avanza un lote completado a la siguiente etapa activa y aplica
// el consumo de materia prima por BOM en el contexto de la etapa destino.
//
// El punto de serialización es la transacción de RunMigration: relee el destino,
// detecta conflictos y escribe destino + punteros del origen de forma atómica.
// El consumo corre después, en un lote propio; si falla no revierte la migración.
type LotMigrationUseCase struct {
	stages    StageResolver
	tx        MigrationTxRunner
	catalogs  repository.ProductCatalogRepository
	stock     repository.StockProductRepository
	batches   repository.BatchFactory
	movements *inventory.ApplyMovementsUseCase
	log       zerolog.Logger
	now       func() time.Time
}

// NewLotMigrationUseCase construye el orquestador.
func NewLotMigrationUseCase(
	stages StageResolver,
	tx MigrationTxRunner,
	catalogs repository.ProductCatalogRepository,
	stock repository.StockProductRepository,
	batches repository.BatchFactory,
	movements *inventory.ApplyMovementsUseCase,
	log zerolog.Logger,
) *LotMigrationUseCase {
	return &LotMigrationUseCase{
		stages:    stages,
		tx:        tx,
		catalogs:  catalogs,
		stock:     stock,
		batches:   batches,
		movements: movements,
		log:       log.With().Str("component", "lot_migration").Logger(),
		now:       time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *LotMigrationUseCase) WithClock(now func() time.Time) *LotMigrationUseCase {
	uc.now = now
	return uc
}

// HandleLotUpdate procesa un evento de actualización de lote. Nunca devuelve error:
// cualquier fallo se registra y se convierte en OutcomeFailed para que la plataforma
// no reintente indefinidamente con efectos ya aplicados.
func (uc *LotMigrationUseCase) HandleLotUpdate(ctx context.Context, ev LotChange) (res MigrationResult) {
	log := uc.log.With().Str("dashboard_id", ev.DashboardID).Str("lot_id", ev.LotID).Logger()
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("error inesperado procesando la migración del lote")
			res = MigrationResult{Outcome: OutcomeFailed}
		}
	}()

	if ev.Before == nil || ev.After == nil {
		return MigrationResult{Outcome: OutcomeMissingSnapshot}
	}
	if !IsMigrationTransition(ev.Before.Status, ev.After.Status) {
		return MigrationResult{Outcome: OutcomeNotEligible}
	}

	next := uc.stages.Next(ctx, ev.DashboardID)
	if next == nil {
		log.Debug().Msg("sin etapa siguiente, fin del pipeline")
		return MigrationResult{Outcome: OutcomeFinalStage}
	}
	if ev.After.MigratedToDashboardID == next.ID {
		return MigrationResult{Outcome: OutcomeAlreadyMigrated, DestinationDashboardID: next.ID, DestinationLotID: ev.After.NextDashboardLotID}
	}

	destID := DestinationLotID(ev.LotID, ev.After)
	now := uc.now().UTC()
	entry := entity.MigrationHistoryEntry{
		FromDashboardID: ev.DashboardID,
		ToDashboardID:   next.ID,
		SourceLotID:     ev.LotID,
		MigratedAt:      now,
	}
	dest := BuildMigratedLot(ev.After, next.ID, destID, entry, now)

	res = MigrationResult{DestinationDashboardID: next.ID, DestinationLotID: destID}
	log = log.With().Str("to_dashboard_id", next.ID).Str("to_lot_id", destID).Logger()

	created, err := uc.migrate(ctx, ev, dest, entry)
	switch {
	case errors.Is(err, domain.ErrMigrationConflict):
		log.Error().Err(err).Msg("conflicto de id en la etapa destino, no se escribe nada")
		res.Outcome = OutcomeConflict
		return res
	case err != nil:
		log.Error().Err(err).Msg("falló la transacción de migración")
		res.Outcome = OutcomeFailed
		return res
	case !created:
		log.Info().Msg("lote ya migrado y vinculado")
		res.Outcome = OutcomeAlreadyLinked
		return res
	}

	res.Outcome = OutcomeMigrated
	log.Info().Msg("lote migrado a la siguiente etapa")

	summary, err := uc.consume(ctx, ev, dest, now)
	if err != nil {
		log.Error().Err(err).Msg("falló el consumo de materia prima; la migración se mantiene")
		return res
	}
	res.Consumption = summary
	return res
}

// migrate ejecuta el paso transaccional. created=false con err=nil significa que el
// destino ya existía vinculado a este origen.
func (uc *LotMigrationUseCase) migrate(ctx context.Context, ev LotChange, dest *entity.Lot, entry entity.MigrationHistoryEntry) (bool, error) {
	var (
		created bool
		err     error
	)
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		created = false
		err = uc.tx.RunMigration(ctx, func(lots repository.LotTxRepository) error {
			existing, err := lots.GetForUpdate(ctx, dest.DashboardID, dest.ID)
			if err != nil {
				return err
			}
			if existing != nil {
				if !IsLinkedTo(existing, ev.DashboardID, ev.LotID) {
					return fmt.Errorf("%w: %s/%s (origen %q)", domain.ErrMigrationConflict, dest.DashboardID, dest.ID, existing.SourceLotID)
				}
				return linkSource(ctx, lots, ev, dest, entry, false)
			}
			if err := lots.Create(ctx, dest); err != nil {
				return err
			}
			created = true
			return linkSource(ctx, lots, ev, dest, entry, true)
		})
		if !errors.Is(err, domain.ErrDuplicate) {
			break
		}
	}
	if err != nil {
		return false, err
	}
	return created, nil
}

// linkSource deja en el origen los punteros al destino y une la entrada al historial.
// En una creación el origen debe existir; si el destino ya estaba vinculado solo se
// completan los campos faltantes.
func linkSource(ctx context.Context, lots repository.LotTxRepository, ev LotChange, dest *entity.Lot, entry entity.MigrationHistoryEntry, creating bool) error {
	src, err := lots.GetForUpdate(ctx, ev.DashboardID, ev.LotID)
	if err != nil {
		return err
	}
	if src == nil {
		if creating {
			return fmt.Errorf("lote origen %s/%s: %w", ev.DashboardID, ev.LotID, domain.ErrNotFound)
		}
		return nil
	}
	changed := false
	if src.MigratedToDashboardID != dest.DashboardID {
		src.MigratedToDashboardID = dest.DashboardID
		changed = true
	}
	if src.NextDashboardLotID != dest.ID {
		src.NextDashboardLotID = dest.ID
		changed = true
	}
	if src.AppendHistory(entry) {
		changed = true
	}
	if creating || src.MigrationMetadata == nil {
		meta := entry
		src.MigrationMetadata = &meta
		changed = true
	}
	if !changed {
		return nil
	}
	return lots.Update(ctx, src)
}

// consume aplica el consumo por BOM de la etapa destino en un lote de escrituras nuevo.
func (uc *LotMigrationUseCase) consume(ctx context.Context, ev LotChange, dest *entity.Lot, now time.Time) (inventory.MovementSummary, error) {
	var summary inventory.MovementSummary

	details := domainprod.BuildMovementDetails(nil, domainprod.BuildProductionDetails(dest))
	if len(details) == 0 {
		return summary, nil
	}

	dashboards := []string{dest.DashboardID}
	if ev.DashboardID != dest.DashboardID {
		dashboards = append(dashboards, ev.DashboardID)
	}
	var sources [][]*entity.Product
	for _, id := range dashboards {
		catalog, err := uc.catalogs.GetByDashboard(ctx, id)
		if err != nil {
			return summary, fmt.Errorf("catálogo del dashboard %s: %w", id, err)
		}
		if catalog != nil && len(catalog.Products) > 0 {
			sources = append(sources, catalog.Products)
		}
	}
	if len(sources) == 0 {
		return summary, nil
	}
	stock, err := uc.stock.List(ctx)
	if err != nil {
		return summary, fmt.Errorf("catálogo de stock: %w", err)
	}
	if len(stock) == 0 {
		return summary, nil
	}

	consumption := domainprod.ApplyConsumption(details, domainprod.NewCatalog(sources...), dest.DashboardID)
	if len(consumption) == 0 {
		return summary, nil
	}

	userID, email := ev.After.Actor()
	batch := uc.batches.NewBatch()
	summary = uc.movements.Apply(batch, consumption, stock, inventory.ApplyOptions{
		UserID:        userID,
		UserEmail:     email,
		Timestamp:     now,
		SourceEntryID: MigrationSourceEntryID(ev.DashboardID, ev.LotID, dest.DashboardID),
	})
	if batch.Len() == 0 {
		return summary, nil
	}
	if err := batch.Commit(ctx); err != nil {
		return inventory.MovementSummary{}, fmt.Errorf("commit del consumo: %w", err)
	}
	return summary, nil
}

// MigrationSourceEntryID correlaciona los movimientos con el evento de migración.
func MigrationSourceEntryID(fromDashboardID, lotID, toDashboardID string) string {
	return "lot-migration:" + fromDashboardID + ":" + lotID + ":" + toDashboardID
}
