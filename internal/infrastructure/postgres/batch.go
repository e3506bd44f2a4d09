package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.WriteBatch = (*WriteBatch)(nil)

// WriteBatch acumula escrituras en un pgx.Batch y las envía en una sola transacción.
// Un error al encolar (p. ej. serialización) se reporta en Commit y no se escribe nada.
type WriteBatch struct {
	pool   *pgxpool.Pool
	batch  *pgx.Batch
	checks map[int]func(pgconn.CommandTag) error
	err    error
}

func newWriteBatch(pool *pgxpool.Pool) *WriteBatch {
	return &WriteBatch{pool: pool, batch: &pgx.Batch{}, checks: make(map[int]func(pgconn.CommandTag) error)}
}

// expect registra una verificación del resultado de la próxima sentencia encolada.
func (b *WriteBatch) expect(check func(pgconn.CommandTag) error) {
	b.checks[b.batch.Len()] = check
}

// UpdateLot reemplaza el documento si la fila sigue en la revisión leída.
func (b *WriteBatch) UpdateLot(lot *entity.Lot) {
	data, err := marshalDoc("lote", lot)
	if err != nil {
		b.fail(err)
		return
	}
	dashboardID, lotID := lot.DashboardID, lot.ID
	b.expect(func(tag pgconn.CommandTag) error {
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("lote %s/%s modificado por otra escritura: %w", dashboardID, lotID, domain.ErrConflict)
		}
		return nil
	})
	b.batch.Queue(`
		UPDATE lots SET data = $3, revision = revision + 1, updated_at = now()
		WHERE dashboard_id = $1 AND id = $2 AND revision = $4`,
		dashboardID, lotID, data, lot.Revision)
}

// UpdateStockVariations reemplaza la lista completa de variaciones del producto.
func (b *WriteBatch) UpdateStockVariations(stockProductID string, variations []entity.StockVariation, updatedAt time.Time) {
	data, err := marshalDoc("variaciones de stock", variations)
	if err != nil {
		b.fail(err)
		return
	}
	b.batch.Queue(`UPDATE stock_products SET variations = $2, updated_at = $3 WHERE id = $1`,
		stockProductID, data, updatedAt)
}

// CreateStockMovement agrega un registro inmutable al libro de movimientos.
func (b *WriteBatch) CreateStockMovement(m *entity.StockMovement) {
	var source any
	if m.SourceEntryID != "" {
		source = m.SourceEntryID
	}
	b.batch.Queue(`
		INSERT INTO stock_movements (id, product_id, variation_id, quantity, type, user_id, user_email, created_at, source_entry_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.ID, m.ProductID, m.VariationID, decimal.NewFromFloat(m.Quantity), m.Type, m.User, m.UserEmail, m.Timestamp, source)
}

// Len cantidad de escrituras encoladas.
func (b *WriteBatch) Len() int { return b.batch.Len() }

// Commit aplica todas las escrituras o ninguna.
func (b *WriteBatch) Commit(ctx context.Context) error {
	if b.err != nil {
		return b.err
	}
	n := b.batch.Len()
	if n == 0 {
		return nil
	}
	tx, err := b.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	results := tx.SendBatch(ctx, b.batch)
	for i := 0; i < n; i++ {
		tag, err := results.Exec()
		if err == nil {
			if check := b.checks[i]; check != nil {
				err = check(tag)
			}
		}
		if err != nil {
			_ = results.Close()
			return fmt.Errorf("batch op %d/%d: %w", i+1, n, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	b.batch = &pgx.Batch{}
	b.checks = make(map[int]func(pgconn.CommandTag) error)
	return nil
}

func (b *WriteBatch) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}
