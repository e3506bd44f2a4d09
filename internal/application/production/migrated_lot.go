package production

import (
	"time"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	domainprod "github.com/jhoicas/Produccion-api/internal/domain/production"
)

// IsMigrationTransition: solo {future, ongoing} → completed* dispara la migración.
func IsMigrationTransition(before, after entity.LotStatus) bool {
	return before.IsOpen() && after.IsCompleted()
}

// DestinationLotID reutiliza el id del lote origen salvo que el documento declare otro.
func DestinationLotID(pathLotID string, after *entity.Lot) string {
	if after != nil && after.ID != "" && after.ID != pathLotID {
		return after.ID
	}
	return pathLotID
}

// BuildMigratedLot arma el documento base del lote en la etapa destino: copia profunda
// del origen, sin campos de ejecución ni punteros de migración previos, en estado de
// entrada (produced=0, status=future, fechas nulas, orden = ahora) y con las
// variaciones renormalizadas y con clave estable.
func BuildMigratedLot(
	source *entity.Lot,
	toDashboardID, destLotID string,
	entry entity.MigrationHistoryEntry,
	now time.Time,
) *entity.Lot {
	l := source.Clone()
	l.ID = destLotID
	l.DashboardID = toDashboardID
	l.Status = entity.LotStatusFuture
	l.Produced = entity.NewNumber(0)
	l.Target = entity.NewNumber(domainprod.NormalizeQuantity(source.Target.Value()))
	l.StartedAt = nil
	l.CompletedAt = nil
	created := now
	l.CreatedAt = &created
	l.Order = now.UnixMilli()

	for i := range l.Variations {
		v := &l.Variations[i]
		v.VariationKey = domainprod.BuildVariationKey(*v, i)
		v.Target = entity.NewNumber(domainprod.NormalizeQuantity(v.Target.Value()))
		v.Produced = entity.NewNumber(0)
	}

	l.MigratedToDashboardID = ""
	l.NextDashboardLotID = ""
	l.MigratedFromDashboard = entry.FromDashboardID
	l.SourceLotID = entry.SourceLotID
	l.AppendHistory(entry)
	meta := entry
	l.MigrationMetadata = &meta
	return l
}

// IsLinkedTo informa si el lote destino ya apunta al origen (migración previa).
func IsLinkedTo(dest *entity.Lot, fromDashboardID, sourceLotID string) bool {
	return dest != nil && dest.MigratedFromDashboard == fromDashboardID && dest.SourceLotID == sourceLotID
}
