package postgres

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxOptions parámetros de concurrencia del runner.
type TxOptions struct {
	MaxRetries  int
	LockTimeout time.Duration
	Logger      *logger.Logger
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool        *pgxpool.Pool
	maxRetries  int
	lockTimeout time.Duration
	log         *logger.Logger
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, opts TxOptions) *TxRunner {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	return &TxRunner{pool: pool, maxRetries: opts.MaxRetries, lockTimeout: opts.LockTimeout, log: opts.Logger}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Deadlocks, fallos de serialización y lock_timeout se reintentan hasta MaxRetries veces;
// agotados los reintentos el error es domain.ErrConflict. Los errores de negocio no se reintentan.
func (r *TxRunner) Run(ctx context.Context, fn func(
	articleRepo repository.ArticleRepository,
	transactionRepo repository.TransactionRepository,
) error) error {
	var err error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		err = r.runOnce(ctx, fn)
		if err == nil || !isRetryable(err) {
			return err
		}
		r.log.Warn().Err(err).Int("attempt", attempt+1).Msg("conflicto de concurrencia, reintentando transacción")
	}
	return fmt.Errorf("%w: %v", domain.ErrConflict, err)
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(
	articleRepo repository.ArticleRepository,
	transactionRepo repository.TransactionRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if r.lockTimeout > 0 {
		ms := strconv.FormatInt(r.lockTimeout.Milliseconds(), 10) + "ms"
		if _, err := tx.Exec(ctx, "SELECT set_config('lock_timeout', $1, true)", ms); err != nil {
			return fmt.Errorf("set lock_timeout: %w", err)
		}
	}

	if err := fn(NewArticleRepository(tx), NewTransactionRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
