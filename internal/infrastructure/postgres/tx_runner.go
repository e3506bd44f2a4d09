package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	appproduction "github.com/jhoicas/Produccion-api/internal/application/production"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var (
	_ appproduction.MigrationTxRunner = (*TxRunner)(nil)
	_ repository.BatchFactory         = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL y crea lotes de escritura.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunMigration inicia una transacción, ejecuta fn con el repositorio de lotes atado a la tx
// y hace Commit o Rollback. Las lecturas con FOR UPDATE serializan migraciones concurrentes
// del mismo lote.
func (r *TxRunner) RunMigration(ctx context.Context, fn func(lots repository.LotTxRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewLotRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewBatch crea una unidad de trabajo vacía sobre el pool.
func (r *TxRunner) NewBatch() repository.WriteBatch {
	return newWriteBatch(r.pool)
}
