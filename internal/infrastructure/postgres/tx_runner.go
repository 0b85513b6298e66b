package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/fifo-valuation-api/internal/application/valuation"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/repository"
)

var _ valuation.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool  *pgxpool.Pool
	retry RetryPolicy
}

// NewTxRunner construye el runner con el pool y DefaultRetryPolicy.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool, retry: DefaultRetryPolicy()}
}

// WithRetry reemplaza la política de reintentos.
func (r *TxRunner) WithRetry(p RetryPolicy) *TxRunner {
	r.retry = p
	return r
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Ante serialización (40001) o deadlock (40P01) repite la transacción completa con espera
// exponencial; fn debe poder ejecutarse más de una vez. Una espera de lock vencida (55P03)
// se devuelve como domain.ErrLockTimeout sin reintentar.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.Repos) error) error {
	return withRetry(ctx, r.retry, func() error { return r.runOnce(ctx, fn) })
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(repos repository.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewRepos repositorios sobre q (pool o tx).
func NewRepos(q Querier) repository.Repos {
	return repository.Repos{
		Layers:         NewValuationLayerRepository(q),
		Usages:         NewLayerUsageRepository(q),
		LandedCosts:    NewLandedCostRepository(q),
		Moves:          NewMoveRepository(q),
		Locations:      NewLocationRepository(q),
		Warehouses:     NewWarehouseRepository(q),
		Products:       NewProductRepository(q),
		Recalculations: NewRecalculationRepository(q),
		Backups:        NewBackupRepository(q),
		Configs:        NewConfigRepository(q),
	}
}
