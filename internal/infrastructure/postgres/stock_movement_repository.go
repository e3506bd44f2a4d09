package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo lectura del libro de movimientos. Las altas se hacen por WriteBatch.
type StockMovementRepo struct {
	pool *pgxpool.Pool
}

// NewStockMovementRepository construye el adaptador.
func NewStockMovementRepository(pool *pgxpool.Pool) *StockMovementRepo {
	return &StockMovementRepo{pool: pool}
}

// List devuelve movimientos del más reciente al más antiguo.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var (
		where []string
		args  []any
	)
	if f.ProductID != "" {
		args = append(args, f.ProductID)
		where = append(where, fmt.Sprintf("product_id = $%d", len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		where = append(where, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	var sb strings.Builder
	sb.WriteString(`
		SELECT id, product_id, variation_id, quantity, type, user_id, user_email, created_at, COALESCE(source_entry_id, '')
		FROM stock_movements`)
	if len(where) > 0 {
		sb.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	sb.WriteString(" ORDER BY created_at DESC, id")
	if f.Limit > 0 {
		args = append(args, f.Limit)
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		sb.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))
	}

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockMovement
	for rows.Next() {
		var (
			m   entity.StockMovement
			qty decimal.Decimal
		)
		if err := rows.Scan(&m.ID, &m.ProductID, &m.VariationID, &qty, &m.Type, &m.User, &m.UserEmail, &m.Timestamp, &m.SourceEntryID); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		m.Quantity = qty.InexactFloat64()
		list = append(list, &m)
	}
	return list, rows.Err()
}
