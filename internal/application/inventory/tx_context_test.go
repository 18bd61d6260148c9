package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-mrp/internal/application/inventory"
	"github.com/jhoicas/Inventario-mrp/internal/domain/entity"
	"github.com/jhoicas/Inventario-mrp/internal/domain/repository"
	"github.com/jhoicas/Inventario-mrp/internal/infrastructure/memory"
)

type txMarkerKey struct{}

// markingRunner marca el contexto de cada transacción y anota las consultas que llegan sin él.
type markingRunner struct {
	inner inventory.TxRunner

	mu       sync.Mutex
	calls    int
	unmarked []string
	locked   []string
}

func (r *markingRunner) Run(ctx context.Context, fn func(
	txCtx context.Context,
	batchRepo repository.BatchRepository,
	movRepo repository.InventoryMovementRepository,
) error) error {
	return r.inner.Run(ctx, func(txCtx context.Context, batchRepo repository.BatchRepository, movRepo repository.InventoryMovementRepository) error {
		txCtx = context.WithValue(txCtx, txMarkerKey{}, true)
		return fn(txCtx, &markedBatchRepo{BatchRepository: batchRepo, r: r}, &markedMovementRepo{InventoryMovementRepository: movRepo, r: r})
	})
}

func (r *markingRunner) check(ctx context.Context, op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if ctx.Value(txMarkerKey{}) == nil {
		r.unmarked = append(r.unmarked, op)
	}
}

type markedBatchRepo struct {
	repository.BatchRepository
	r *markingRunner
}

func (b *markedBatchRepo) Create(ctx context.Context, batch *entity.InventoryBatch) error {
	b.r.check(ctx, "batch.Create")
	return b.BatchRepository.Create(ctx, batch)
}

func (b *markedBatchRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryBatch, error) {
	b.r.check(ctx, "batch.GetForUpdate")
	b.r.mu.Lock()
	b.r.locked = append(b.r.locked, id)
	b.r.mu.Unlock()
	return b.BatchRepository.GetForUpdate(ctx, id)
}

func (b *markedBatchRepo) ListAvailableFIFO(ctx context.Context, productID string, forUpdate bool) ([]*entity.InventoryBatch, error) {
	b.r.check(ctx, "batch.ListAvailableFIFO")
	return b.BatchRepository.ListAvailableFIFO(ctx, productID, forUpdate)
}

func (b *markedBatchRepo) Deplete(ctx context.Context, batchID string, quantity decimal.Decimal) (*entity.InventoryBatch, error) {
	b.r.check(ctx, "batch.Deplete")
	return b.BatchRepository.Deplete(ctx, batchID, quantity)
}

type markedMovementRepo struct {
	repository.InventoryMovementRepository
	r *markingRunner
}

func (m *markedMovementRepo) Create(ctx context.Context, mov *entity.InventoryMovement) error {
	m.r.check(ctx, "movement.Create")
	return m.InventoryMovementRepository.Create(ctx, mov)
}

func (m *markedMovementRepo) ListByBatch(ctx context.Context, batchID string) ([]*entity.InventoryMovement, error) {
	m.r.check(ctx, "movement.ListByBatch")
	return m.InventoryMovementRepository.ListByBatch(ctx, batchID)
}

func TestTxRunner_ConsultasUsanElContextoDeLaTransaccion(t *testing.T) {
	store := memory.NewStore()
	catalog := memory.NewProductRepository(store)
	batchRepo := memory.NewBatchRepository(store)
	movRepo := memory.NewMovementRepository(store)
	runner := &markingRunner{inner: memory.NewTxRunner(store)}

	ledger := inventory.NewMovementLedger(batchRepo, movRepo).WithTxRunner(runner)
	batches := inventory.NewBatchStore(runner, batchRepo, ledger, nil)
	consumption := inventory.NewConsumptionEngine(batches, ledger, nil)
	adjustments := inventory.NewAdjustmentEngine(batches, ledger, catalog, nil)
	ctx := context.Background()
	require.NoError(t, catalog.Create(ctx, &entity.Product{ID: "mp-1", SKU: "MP-1", Name: "Harina", Kind: entity.ProductKindRawMaterial, UnitMeasure: "KG"}))

	b, err := batches.CreateBatch(ctx, inventory.NewBatchInput{
		ProductID: "mp-1", BatchNumber: "L-1", InboundQuantity: dec("10"), UnitCost: dec("1"),
		SourceType: entity.SourceTypePurchase, SourceReference: "OC-1", InboundDate: baseDate,
	})
	require.NoError(t, err)
	_, err = consumption.Consume(ctx, inventory.ConsumeInput{ProductID: "mp-1", Quantity: dec("3"), SourceReference: "OP-1"})
	require.NoError(t, err)
	_, err = adjustments.Decrease(ctx, inventory.DecreaseInput{ProductID: "mp-1", Quantity: dec("2"), Reason: "merma"})
	require.NoError(t, err)
	_, err = adjustments.Increase(ctx, inventory.IncreaseInput{ProductID: "mp-1", Quantity: dec("1"), UnitCost: dec("1"), Reason: "conteo"})
	require.NoError(t, err)

	audit, err := ledger.VerifyBatch(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, audit.Consistent, "%v", audit.Problems)
	assert.Equal(t, 3, audit.MovementCount)

	assert.Positive(t, runner.calls)
	assert.Empty(t, runner.unmarked)
	assert.Equal(t, []string{b.ID}, runner.locked, "la conciliación lee el lote bloqueado")
}
