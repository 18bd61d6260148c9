package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-mrp/internal/application/inventory"
	"github.com/jhoicas/Inventario-mrp/internal/application/planning"
	"github.com/jhoicas/Inventario-mrp/internal/domain/entity"
	"github.com/jhoicas/Inventario-mrp/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var baseDate = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

// recordingInvalidator registra los productos invalidados.
type recordingInvalidator struct {
	mu  sync.Mutex
	ids []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, ids ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, ids...)
}

func (r *recordingInvalidator) seen(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.ids {
		if x == id {
			return true
		}
	}
	return false
}

type fixture struct {
	store       *memory.Store
	catalog     *memory.ProductRepository
	movRepo     *memory.MovementRepository
	batches     *inventory.BatchStore
	ledger      *inventory.MovementLedger
	consumption *inventory.ConsumptionEngine
	adjustments *inventory.AdjustmentEngine
	receiving   *inventory.ReceivingUseCase
	invalidated *recordingInvalidator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	catalog := memory.NewProductRepository(store)
	batchRepo := memory.NewBatchRepository(store)
	movRepo := memory.NewMovementRepository(store)
	inv := &recordingInvalidator{}

	txRunner := memory.NewTxRunner(store)
	ledger := inventory.NewMovementLedger(batchRepo, movRepo).WithTxRunner(txRunner)
	batches := inventory.NewBatchStore(txRunner, batchRepo, ledger, inv)
	consumption := inventory.NewConsumptionEngine(batches, ledger, nil)
	planner := planning.NewPlanner(catalog, batches)
	return &fixture{
		store:       store,
		catalog:     catalog,
		movRepo:     movRepo,
		batches:     batches,
		ledger:      ledger,
		consumption: consumption,
		adjustments: inventory.NewAdjustmentEngine(batches, ledger, catalog, nil),
		receiving:   inventory.NewReceivingUseCase(catalog, batches, consumption, planner, 2),
		invalidated: inv,
	}
}

func (f *fixture) product(t *testing.T, id, kind string) *entity.Product {
	t.Helper()
	p := &entity.Product{ID: id, SKU: "SKU-" + id, Name: "Producto " + id, Kind: kind, UnitMeasure: "UND"}
	require.NoError(t, f.catalog.Create(context.Background(), p))
	return p
}

func (f *fixture) batch(t *testing.T, productID, number, qty, cost string, date time.Time) *entity.InventoryBatch {
	t.Helper()
	b, err := f.batches.CreateBatch(context.Background(), inventory.NewBatchInput{
		ProductID:       productID,
		BatchNumber:     number,
		InboundQuantity: dec(qty),
		UnitCost:        dec(cost),
		SourceType:      entity.SourceTypePurchase,
		SourceReference: "OC-" + number,
		InboundDate:     date,
	})
	require.NoError(t, err)
	return b
}

func (f *fixture) remaining(t *testing.T, productID string) decimal.Decimal {
	t.Helper()
	r, err := f.batches.GetRemaining(context.Background(), productID)
	require.NoError(t, err)
	return r
}

func (f *fixture) requireConsistent(t *testing.T, batchID string) {
	t.Helper()
	audit, err := f.ledger.VerifyBatch(context.Background(), batchID)
	require.NoError(t, err)
	require.True(t, audit.Consistent, "ledger inconsistente: %v", audit.Problems)
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	require.Truef(t, dec(want).Equal(got), "esperado %s, obtenido %s %v", want, got.String(), msgAndArgs)
}
