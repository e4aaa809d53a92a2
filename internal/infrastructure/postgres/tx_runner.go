package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/kardex-core/internal/application/stock"
	"github.com/jhoicas/kardex-core/internal/domain/repository"
)

// Ensure TxRunner implements stock.TxRunner.
var _ stock.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Es el único camino por el que el mutador de stock toca saldos y diario:
// las dos escrituras de cada mutación viajan siempre en la misma transacción.
type TxRunner struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// NewTxRunner construye el runner. lockTimeout acota la espera de los
// SELECT FOR UPDATE dentro de cada transacción (0 = sin límite propio).
func NewTxRunner(pool *pgxpool.Pool, lockTimeout time.Duration) *TxRunner {
	return &TxRunner{pool: pool, lockTimeout: lockTimeout}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Al vencer lock_timeout PostgreSQL responde 55P03, que los
// repositorios traducen a ErrLockTimeout; aquí solo se garantiza el rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	balanceRepo repository.StockBalanceRepository,
	movRepo repository.MovementRepository,
	seqRepo repository.SequenceRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if r.lockTimeout > 0 {
		// SET LOCAL muere con la transacción; no contamina la conexión del pool.
		set := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, set); err != nil {
			return fmt.Errorf("set lock_timeout: %w", err)
		}
	}

	balanceRepo := NewStockBalanceRepository(tx)
	movRepo := NewMovementRepository(tx)
	seqRepo := NewSequenceRepository(tx)

	if err := fn(balanceRepo, movRepo, seqRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
