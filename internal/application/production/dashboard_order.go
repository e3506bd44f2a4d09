package production

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// DefaultDashboardCacheTTL vigencia del orden de dashboards en caché.
const DefaultDashboardCacheTTL = 5 * time.Minute

// DashboardOrder caché del orden de etapas activas con vigencia fija.
// No se invalida ante cambios de configuración: un reordenamiento puede verse
// hasta ttl más tarde (salvo Invalidate explícito).
type DashboardOrder struct {
	repo repository.DashboardRepository
	log  zerolog.Logger
	ttl  time.Duration
	now  func() time.Time

	mu        sync.Mutex
	entries   []entity.Dashboard
	fetchedAt time.Time
	loaded    bool
}

// NewDashboardOrder construye la caché. ttl <= 0 usa DefaultDashboardCacheTTL.
func NewDashboardOrder(repo repository.DashboardRepository, ttl time.Duration, log zerolog.Logger) *DashboardOrder {
	if ttl <= 0 {
		ttl = DefaultDashboardCacheTTL
	}
	return &DashboardOrder{
		repo: repo,
		log:  log.With().Str("component", "dashboard_order").Logger(),
		ttl:  ttl,
		now:  time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (o *DashboardOrder) WithClock(now func() time.Time) *DashboardOrder {
	o.now = now
	return o
}

// Ordered devuelve las etapas activas ordenadas. Ante un error de lectura devuelve
// lista vacía (el caller lo trata como "sin siguiente etapa").
func (o *DashboardOrder) Ordered(ctx context.Context) []entity.Dashboard {
	o.mu.Lock()
	defer o.mu.Unlock()

	now := o.now()
	if o.loaded && now.Sub(o.fetchedAt) < o.ttl {
		return o.entries
	}

	dashboards, err := o.repo.ListActiveOrdered(ctx)
	if err != nil {
		o.log.Error().Err(err).Msg("no se pudo leer el orden de dashboards")
		return nil
	}
	entries := make([]entity.Dashboard, 0, len(dashboards))
	for _, d := range dashboards {
		if IsActive(d) {
			entries = append(entries, d)
		}
	}
	o.entries = entries
	o.fetchedAt = now
	o.loaded = true
	return o.entries
}

// Invalidate descarta la caché; la próxima lectura va al repositorio.
func (o *DashboardOrder) Invalidate() {
	o.mu.Lock()
	o.loaded = false
	o.entries = nil
	o.mu.Unlock()
}

// IsActive: falso si está deshabilitado explícitamente o no tiene id.
func IsActive(d entity.Dashboard) bool {
	if d.ID == "" {
		return false
	}
	return d.Active == nil || *d.Active
}

// Next devuelve la primera etapa activa posterior a currentID, o nil si no hay
// (id vacío, orden vacío, id desconocido o fin del pipeline).
func (o *DashboardOrder) Next(ctx context.Context, currentID string) *entity.Dashboard {
	if currentID == "" {
		return nil
	}
	ordered := o.Ordered(ctx)
	if len(ordered) == 0 {
		return nil
	}
	pos := -1
	for i, d := range ordered {
		if d.ID == currentID {
			pos = i
			break
		}
	}
	if pos < 0 {
		o.log.Warn().Str("dashboard_id", currentID).Msg("dashboard no encontrado en el orden configurado")
		return nil
	}
	for i := pos + 1; i < len(ordered); i++ {
		if IsActive(ordered[i]) {
			next := ordered[i]
			return &next
		}
	}
	return nil
}
