package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appproduction "github.com/jhoicas/Produccion-api/internal/application/production"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// DefaultChangeChannel canal de NOTIFY que emite el trigger de la tabla lots.
const DefaultChangeChannel = "lot_changes"

// LotChangeHandler procesa un cambio de lote (implementado por LotMigrationUseCase).
type LotChangeHandler interface {
	HandleLotUpdate(ctx context.Context, ev appproduction.LotChange) appproduction.MigrationResult
}

type lotChangeEvent struct {
	id     int64
	change appproduction.LotChange
}

// LotChangeListener consume lot_change_events: escucha NOTIFY, carga el evento y lo despacha
// a un pool de workers. Los eventos de un mismo lote van siempre al mismo worker, así se
// procesan en orden; lotes distintos corren en paralelo. El evento se borra al terminar.
type LotChangeListener struct {
	pool    *pgxpool.Pool
	handler LotChangeHandler
	channel string
	workers int
	log     zerolog.Logger
}

// NewLotChangeListener construye el listener. workers <= 0 usa 1.
func NewLotChangeListener(pool *pgxpool.Pool, handler LotChangeHandler, channel string, workers int, log zerolog.Logger) *LotChangeListener {
	if channel == "" {
		channel = DefaultChangeChannel
	}
	if workers <= 0 {
		workers = 1
	}
	return &LotChangeListener{
		pool:    pool,
		handler: handler,
		channel: channel,
		workers: workers,
		log:     log.With().Str("component", "lot_listener").Str("channel", channel).Logger(),
	}
}

// Run bloquea hasta que ctx se cancele. Ante una caída de la conexión reintenta con espera.
func (l *LotChangeListener) Run(ctx context.Context) error {
	queues := make([]chan lotChangeEvent, l.workers)
	var wg sync.WaitGroup
	for i := range queues {
		queues[i] = make(chan lotChangeEvent, 16)
		wg.Add(1)
		go func(id int, jobs <-chan lotChangeEvent) {
			defer wg.Done()
			for ev := range jobs {
				l.process(ctx, ev)
			}
			l.log.Debug().Int("worker", id).Msg("worker detenido")
		}(i, queues[i])
	}
	defer func() {
		for _, q := range queues {
			close(q)
		}
		wg.Wait()
	}()
	l.log.Info().Int("workers", l.workers).Msg("listener de cambios de lote iniciado")

	backoff := time.Second
	for {
		err := l.listen(ctx, queues)
		if ctx.Err() != nil {
			return nil
		}
		l.log.Error().Err(err).Dur("retry_in", backoff).Msg("conexión de LISTEN perdida")
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (l *LotChangeListener) listen(ctx context.Context, queues []chan lotChangeEvent) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	// Eventos que quedaron sin procesar (reinicio o notificaciones perdidas).
	pending, err := l.pendingIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range pending {
		if err := l.dispatch(ctx, id, queues); err != nil {
			return err
		}
	}

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait notification: %w", err)
		}
		id, err := strconv.ParseInt(n.Payload, 10, 64)
		if err != nil {
			l.log.Warn().Str("payload", n.Payload).Msg("payload de notificación inválido")
			continue
		}
		if err := l.dispatch(ctx, id, queues); err != nil {
			return err
		}
	}
}

func (l *LotChangeListener) pendingIDs(ctx context.Context) ([]int64, error) {
	rows, err := l.pool.Query(ctx, `SELECT id FROM lot_change_events ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("pending events: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}

func (l *LotChangeListener) dispatch(ctx context.Context, id int64, queues []chan lotChangeEvent) error {
	ev, err := l.load(ctx, id)
	if err != nil {
		return err
	}
	if ev == nil {
		return nil
	}
	q := queues[shard(ev.change.DashboardID, ev.change.LotID, len(queues))]
	select {
	case q <- *ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// load devuelve nil si el evento ya fue procesado por otra instancia.
func (l *LotChangeListener) load(ctx context.Context, id int64) (*lotChangeEvent, error) {
	var (
		ev            = lotChangeEvent{id: id}
		before, after []byte
	)
	err := l.pool.QueryRow(ctx,
		`SELECT dashboard_id, lot_id, before, after FROM lot_change_events WHERE id = $1`, id).
		Scan(&ev.change.DashboardID, &ev.change.LotID, &before, &after)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load event %d: %w", id, err)
	}
	if ev.change.Before, err = decodeSnapshot(before, ev.change.DashboardID, ev.change.LotID); err != nil {
		l.log.Warn().Err(err).Int64("event_id", id).Msg("snapshot before inválido")
	}
	if ev.change.After, err = decodeSnapshot(after, ev.change.DashboardID, ev.change.LotID); err != nil {
		l.log.Warn().Err(err).Int64("event_id", id).Msg("snapshot after inválido")
	}
	return &ev, nil
}

func decodeSnapshot(data []byte, dashboardID, lotID string) (*entity.Lot, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("json inválido")
	}
	return decodeLot(data, dashboardID, lotID)
}

func (l *LotChangeListener) process(ctx context.Context, ev lotChangeEvent) {
	res := l.handler.HandleLotUpdate(ctx, ev.change)
	l.log.Info().
		Int64("event_id", ev.id).
		Str("dashboard_id", ev.change.DashboardID).
		Str("lot_id", ev.change.LotID).
		Str("outcome", string(res.Outcome)).
		Msg("evento de lote procesado")

	if ctx.Err() != nil {
		return
	}
	if _, err := l.pool.Exec(ctx, `DELETE FROM lot_change_events WHERE id = $1`, ev.id); err != nil {
		l.log.Error().Err(err).Int64("event_id", ev.id).Msg("no se pudo borrar el evento procesado")
	}
}

func shard(dashboardID, lotID string, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(dashboardID + "/" + lotID))
	return int(h.Sum32() % uint32(n))
}
