// ledgercheck concilia cada lote de PostgreSQL contra su historial de movimientos.
// Termina con código 1 si algún lote no cuadra.
//
// Uso: go run ./cmd/ledgercheck
package main

import (
	"context"
	"os"
	"strings"

	"github.com/jhoicas/Inventario-mrp/internal/application/inventory"
	"github.com/jhoicas/Inventario-mrp/internal/infrastructure/postgres"
	"github.com/jhoicas/Inventario-mrp/pkg/config"
	"github.com/jhoicas/Inventario-mrp/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, App: "ledgercheck"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	ledger := inventory.NewMovementLedger(
		postgres.NewBatchRepository(pool),
		postgres.NewInventoryMovementRepository(pool),
	).WithTxRunner(postgres.NewTxRunner(pool, cfg.DB))
	report, err := ledger.AuditAll(ctx, 500)
	if err != nil {
		log.Error().Err(err).Int("checked", report.Checked).Msg("conciliación interrumpida")
		pool.Close()
		os.Exit(2)
	}

	for _, a := range report.Inconsistent {
		log.Warn().
			Str("batch_id", a.BatchID).
			Str("inbound", a.InboundQuantity.String()).
			Str("remaining", a.RemainingQuantity.String()).
			Str("ledger_balance", a.LedgerBalance.String()).
			Int("movements", a.MovementCount).
			Str("problems", strings.Join(a.Problems, "; ")).
			Msg("lote inconsistente")
	}
	log.Info().
		Int("checked", report.Checked).
		Int("inconsistent", len(report.Inconsistent)).
		Msg("conciliación terminada")

	if len(report.Inconsistent) > 0 {
		pool.Close()
		os.Exit(1)
	}
}
