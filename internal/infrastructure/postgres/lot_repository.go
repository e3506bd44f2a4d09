package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var (
	_ repository.LotRepository   = (*LotRepo)(nil)
	_ repository.LotTxRepository = (*LotRepo)(nil)
)

// LotRepo lotes como documentos JSONB indexados por (dashboard_id, id). Usable con pool o tx.
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

// Get devuelve el lote o (nil, nil) si no existe.
func (r *LotRepo) Get(ctx context.Context, dashboardID, lotID string) (*entity.Lot, error) {
	return r.get(ctx, `SELECT data, revision FROM lots WHERE dashboard_id = $1 AND id = $2`, dashboardID, lotID)
}

// GetForUpdate lee y bloquea la fila hasta el fin de la transacción.
func (r *LotRepo) GetForUpdate(ctx context.Context, dashboardID, lotID string) (*entity.Lot, error) {
	return r.get(ctx, `SELECT data, revision FROM lots WHERE dashboard_id = $1 AND id = $2 FOR UPDATE`, dashboardID, lotID)
}

func (r *LotRepo) get(ctx context.Context, query, dashboardID, lotID string) (*entity.Lot, error) {
	var (
		data     []byte
		revision int64
	)
	if err := r.q.QueryRow(ctx, query, dashboardID, lotID).Scan(&data, &revision); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot %s/%s: %w", dashboardID, lotID, err)
	}
	lot, err := decodeLot(data, dashboardID, lotID)
	if lot != nil {
		lot.Revision = revision
	}
	return lot, err
}

// Create inserta el documento; si el id ya existe devuelve domain.ErrDuplicate.
func (r *LotRepo) Create(ctx context.Context, lot *entity.Lot) error {
	data, err := marshalDoc("lote", lot)
	if err != nil {
		return err
	}
	_, err = r.q.Exec(ctx,
		`INSERT INTO lots (dashboard_id, id, data, updated_at) VALUES ($1, $2, $3, now())`,
		lot.DashboardID, lot.ID, data)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create lot %s/%s: %w", lot.DashboardID, lot.ID, domain.ErrDuplicate)
		}
		return fmt.Errorf("create lot: %w", err)
	}
	return nil
}

// Update reemplaza el documento completo y avanza la revisión.
func (r *LotRepo) Update(ctx context.Context, lot *entity.Lot) error {
	data, err := marshalDoc("lote", lot)
	if err != nil {
		return err
	}
	tag, err := r.q.Exec(ctx,
		`UPDATE lots SET data = $3, revision = revision + 1, updated_at = now() WHERE dashboard_id = $1 AND id = $2`,
		lot.DashboardID, lot.ID, data)
	if err != nil {
		return fmt.Errorf("update lot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update lot %s/%s: %w", lot.DashboardID, lot.ID, domain.ErrNotFound)
	}
	return nil
}

// decodeLot completa la identidad con la clave de la fila cuando el documento no la trae.
func decodeLot(data []byte, dashboardID, lotID string) (*entity.Lot, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var lot entity.Lot
	if err := json.Unmarshal(data, &lot); err != nil {
		return nil, fmt.Errorf("decodificar lote %s/%s: %w", dashboardID, lotID, err)
	}
	if lot.ID == "" {
		lot.ID = lotID
	}
	if lot.DashboardID == "" {
		lot.DashboardID = dashboardID
	}
	return &lot, nil
}
