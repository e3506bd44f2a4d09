package production_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// ── Almacén de documentos en memoria ─────────────────────────────────────────

type memStore struct {
	mu        sync.Mutex
	lots      map[string]*entity.Lot
	stock     map[string]*entity.StockProduct
	movements []*entity.StockMovement
	catalogs  map[string]*entity.ProductCatalog

	txCalls      int
	commitErr    error
	beforeCommit func()
	catalogErr   error
	beforeTxFns  []func(lots map[string]*entity.Lot) error
}

func newMemStore() *memStore {
	return &memStore{
		lots:     make(map[string]*entity.Lot),
		stock:    make(map[string]*entity.StockProduct),
		catalogs: make(map[string]*entity.ProductCatalog),
	}
}

func lotKey(dashboardID, lotID string) string { return dashboardID + "/" + lotID }

func (s *memStore) putLot(l *entity.Lot) {
	s.lots[lotKey(l.DashboardID, l.ID)] = l.Clone()
}

func (s *memStore) lot(dashboardID, lotID string) *entity.Lot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lots[lotKey(dashboardID, lotID)].Clone()
}

func (s *memStore) lotCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lots)
}

func (s *memStore) currentStock(productID, variationID string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.stock[productID]
	return p.Variations[p.FindVariation(variationID)].CurrentStock
}

// RunMigration: copia de trabajo de los lotes, se publica solo si fn no falla.
func (s *memStore) RunMigration(ctx context.Context, fn func(lots repository.LotTxRepository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txCalls++

	if len(s.beforeTxFns) > 0 {
		hook := s.beforeTxFns[0]
		s.beforeTxFns = s.beforeTxFns[1:]
		if err := hook(s.lots); err != nil {
			return err
		}
	}

	staged := make(map[string]*entity.Lot, len(s.lots))
	for k, v := range s.lots {
		staged[k] = v.Clone()
	}
	if err := fn(&memLotTx{lots: staged}); err != nil {
		return err
	}
	s.lots = staged
	return nil
}

type memLotTx struct {
	lots map[string]*entity.Lot
}

func (t *memLotTx) GetForUpdate(_ context.Context, dashboardID, lotID string) (*entity.Lot, error) {
	return t.lots[lotKey(dashboardID, lotID)].Clone(), nil
}

func (t *memLotTx) Create(_ context.Context, l *entity.Lot) error {
	k := lotKey(l.DashboardID, l.ID)
	if _, ok := t.lots[k]; ok {
		return domain.ErrDuplicate
	}
	t.lots[k] = l.Clone()
	return nil
}

func (t *memLotTx) Update(_ context.Context, l *entity.Lot) error {
	k := lotKey(l.DashboardID, l.ID)
	cur, ok := t.lots[k]
	if !ok {
		return domain.ErrNotFound
	}
	next := l.Clone()
	next.Revision = cur.Revision + 1
	t.lots[k] = next
	return nil
}

// LotRepository
func (s *memStore) Get(_ context.Context, dashboardID, lotID string) (*entity.Lot, error) {
	return s.lot(dashboardID, lotID), nil
}

func (s *memStore) Update(_ context.Context, l *entity.Lot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := lotKey(l.DashboardID, l.ID)
	cur, ok := s.lots[k]
	if !ok {
		return domain.ErrNotFound
	}
	next := l.Clone()
	next.Revision = cur.Revision + 1
	s.lots[k] = next
	return nil
}

// ── Catálogos y dashboards ───────────────────────────────────────────────────

type memCatalogs struct{ s *memStore }

func (c memCatalogs) GetByDashboard(_ context.Context, dashboardID string) (*entity.ProductCatalog, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if c.s.catalogErr != nil {
		return nil, c.s.catalogErr
	}
	return c.s.catalogs[dashboardID], nil
}

type memStock struct{ s *memStore }

func (m memStock) List(_ context.Context) ([]*entity.StockProduct, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := make([]*entity.StockProduct, 0, len(m.s.stock))
	for _, p := range m.s.stock {
		cp := *p
		cp.Variations = append([]entity.StockVariation(nil), p.Variations...)
		out = append(out, &cp)
	}
	return out, nil
}

type memDashboards struct {
	mu    sync.Mutex
	list  []entity.Dashboard
	err   error
	calls int
}

func (d *memDashboards) ListActiveOrdered(_ context.Context) ([]entity.Dashboard, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	return append([]entity.Dashboard(nil), d.list...), nil
}

// ── Lote de escrituras ───────────────────────────────────────────────────────

type memBatch struct {
	s         *memStore
	lots      []*entity.Lot
	stock     map[string][]entity.StockVariation
	movements []*entity.StockMovement
	ops       int
}

func (s *memStore) NewBatch() repository.WriteBatch {
	return &memBatch{s: s, stock: make(map[string][]entity.StockVariation)}
}

func (b *memBatch) UpdateLot(l *entity.Lot) {
	b.lots = append(b.lots, l.Clone())
	b.ops++
}

func (b *memBatch) UpdateStockVariations(id string, vars []entity.StockVariation, _ time.Time) {
	b.stock[id] = append([]entity.StockVariation(nil), vars...)
	b.ops++
}

func (b *memBatch) CreateStockMovement(m *entity.StockMovement) {
	b.movements = append(b.movements, m)
	b.ops++
}

func (b *memBatch) Len() int { return b.ops }

func (b *memBatch) Commit(_ context.Context) error {
	if b.s.beforeCommit != nil {
		b.s.beforeCommit()
	}
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	if b.s.commitErr != nil {
		return b.s.commitErr
	}
	// Mismo contrato que el UPDATE condicional: todo o nada.
	for _, l := range b.lots {
		cur, ok := b.s.lots[lotKey(l.DashboardID, l.ID)]
		if !ok || cur.Revision != l.Revision {
			return fmt.Errorf("lote %s/%s: %w", l.DashboardID, l.ID, domain.ErrConflict)
		}
	}
	for _, l := range b.lots {
		next := l.Clone()
		next.Revision++
		b.s.putLot(next)
	}
	for id, vars := range b.stock {
		if p, ok := b.s.stock[id]; ok {
			p.Variations = vars
		}
	}
	b.s.movements = append(b.s.movements, b.movements...)
	return nil
}

var errBoom = errors.New("boom")
