package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Inventario-mrp/internal/application/inventory"
	"github.com/jhoicas/Inventario-mrp/internal/domain"
	"github.com/jhoicas/Inventario-mrp/internal/domain/repository"
	"github.com/jhoicas/Inventario-mrp/pkg/config"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL con aislamiento y timeout
// configurables. Los conflictos (40001, 40P01) se reintentan hasta maxRetries veces.
type TxRunner struct {
	pool       *pgxpool.Pool
	opts       pgx.TxOptions
	timeout    time.Duration
	maxRetries int
}

// NewTxRunner construye el runner con el pool y la configuración de transacciones.
func NewTxRunner(pool *pgxpool.Pool, cfg config.DBConfig) *TxRunner {
	timeout := cfg.TxTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TxRunner{
		pool:       pool,
		opts:       pgx.TxOptions{IsoLevel: isolationLevel(cfg.TxIsolation)},
		timeout:    timeout,
		maxRetries: cfg.TxMaxRetries,
	}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Todas las consultas de fn corren bajo el timeout de la transacción.
// fn puede ejecutarse más de una vez si hay reintentos.
func (r *TxRunner) Run(ctx context.Context, fn func(
	txCtx context.Context,
	batchRepo repository.BatchRepository,
	movRepo repository.InventoryMovementRepository,
) error) error {
	for attempt := 0; ; attempt++ {
		err := r.runOnce(ctx, fn)
		if err == nil || !errors.Is(err, domain.ErrStorageConflict) || attempt >= r.maxRetries {
			return err
		}
		wait := retryBackoff(attempt)
		log.Debug().Err(err).Int("attempt", attempt+1).Dur("wait", wait).Msg("reintentando transacción")
		select {
		case <-ctx.Done():
			return mapStorageError(ctx.Err())
		case <-time.After(wait):
		}
	}
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(
	txCtx context.Context,
	batchRepo repository.BatchRepository,
	movRepo repository.InventoryMovementRepository,
) error) error {
	txCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.pool.BeginTx(txCtx, r.opts)
	if err != nil {
		return mapStorageError(fmt.Errorf("begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	if err := fn(txCtx, NewBatchRepository(tx), NewInventoryMovementRepository(tx)); err != nil {
		return mapStorageError(err)
	}
	if err := tx.Commit(txCtx); err != nil {
		return mapStorageError(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

func isolationLevel(s string) pgx.TxIsoLevel {
	switch s {
	case "serializable":
		return pgx.Serializable
	case "repeatable read":
		return pgx.RepeatableRead
	default:
		return pgx.ReadCommitted
	}
}

// retryBackoff espera lineal corta: 25ms, 50ms, 75ms...
func retryBackoff(attempt int) time.Duration {
	return time.Duration(attempt+1) * 25 * time.Millisecond
}
