package reporting_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-mrp/internal/application/inventory"
	"github.com/jhoicas/Inventario-mrp/internal/application/reporting"
	"github.com/jhoicas/Inventario-mrp/internal/domain"
	"github.com/jhoicas/Inventario-mrp/internal/domain/entity"
	"github.com/jhoicas/Inventario-mrp/internal/infrastructure/memory"
)

type captureRenderer struct{ report *reporting.ValuationReport }

func (r *captureRenderer) RenderValuation(report *reporting.ValuationReport) ([]byte, error) {
	r.report = report
	return []byte("%PDF"), nil
}

type captureExporter struct {
	product   *entity.Product
	movements []*entity.InventoryMovement
}

func (e *captureExporter) ExportMovements(p *entity.Product, movs []*entity.InventoryMovement) ([]byte, error) {
	e.product, e.movements = p, movs
	return []byte("xlsx"), nil
}

type reportFixture struct {
	uc          *reporting.ReportUseCase
	catalog     *memory.ProductRepository
	batches     *inventory.BatchStore
	consumption *inventory.ConsumptionEngine
	renderer    *captureRenderer
	exporter    *captureExporter
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()
	store := memory.NewStore()
	catalog := memory.NewProductRepository(store)
	batchRepo := memory.NewBatchRepository(store)
	movRepo := memory.NewMovementRepository(store)
	ledger := inventory.NewMovementLedger(batchRepo, movRepo)
	batches := inventory.NewBatchStore(memory.NewTxRunner(store), batchRepo, ledger, nil)
	renderer, exporter := &captureRenderer{}, &captureExporter{}
	return &reportFixture{
		uc:          reporting.NewReportUseCase(catalog, batchRepo, movRepo, renderer, exporter),
		catalog:     catalog,
		batches:     batches,
		consumption: inventory.NewConsumptionEngine(batches, ledger, nil),
		renderer:    renderer,
		exporter:    exporter,
	}
}

func (f *reportFixture) seed(t *testing.T, id, sku string, lots ...[2]string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.catalog.Create(ctx, &entity.Product{ID: id, SKU: sku, Name: "Producto " + sku, Kind: entity.ProductKindRawMaterial}))
	for i, lot := range lots {
		_, err := f.batches.CreateBatch(ctx, inventory.NewBatchInput{
			ProductID:       id,
			BatchNumber:     sku + "-L" + string(rune('1'+i)),
			InboundQuantity: decimal.RequireFromString(lot[0]),
			UnitCost:        decimal.RequireFromString(lot[1]),
			SourceType:      entity.SourceTypePurchase,
			InboundDate:     time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
	}
}

func TestValuation_AgrupaPorProductoYOrdenaPorSKU(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()
	f.seed(t, "p2", "MP-002", [2]string{"10", "2.50"})
	f.seed(t, "p1", "MP-001", [2]string{"100", "5"}, [2]string{"20", "6"})

	_, err := f.consumption.Consume(ctx, inventory.ConsumeInput{ProductID: "p1", Quantity: decimal.NewFromInt(40)})
	require.NoError(t, err)

	report, err := f.uc.Valuation(ctx)
	require.NoError(t, err)
	require.Len(t, report.Lines, 2)

	first := report.Lines[0]
	assert.Equal(t, "MP-001", first.SKU)
	assert.True(t, first.Quantity.Equal(decimal.NewFromInt(80)), first.Quantity.String())
	// 60 * 5 + 20 * 6
	assert.True(t, first.Value.Equal(decimal.NewFromInt(420)), first.Value.String())
	assert.Equal(t, 2, first.BatchCount)

	assert.Equal(t, "MP-002", report.Lines[1].SKU)
	assert.True(t, report.TotalValue.Equal(decimal.RequireFromString("445")), report.TotalValue.String())
}

func TestValuation_ExcluyeLotesAgotados(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()
	f.seed(t, "p1", "MP-001", [2]string{"10", "1"})
	_, err := f.consumption.Consume(ctx, inventory.ConsumeInput{ProductID: "p1", Quantity: decimal.NewFromInt(10)})
	require.NoError(t, err)

	report, err := f.uc.Valuation(ctx)
	require.NoError(t, err)
	assert.Empty(t, report.Lines)
	assert.True(t, report.TotalValue.IsZero())
}

func TestValuationPDF_NombreDeArchivo(t *testing.T) {
	f := newReportFixture(t)
	f.seed(t, "p1", "MP-001", [2]string{"1", "1"})

	data, name, err := f.uc.ValuationPDF(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data))
	assert.Regexp(t, `^valoracion-\d{8}\.pdf$`, name)
	require.NotNil(t, f.renderer.report)
	assert.Len(t, f.renderer.report.Lines, 1)
}

func TestMovementsXLSX(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()
	f.seed(t, "p1", "MP-001", [2]string{"100", "5"})
	_, err := f.consumption.Consume(ctx, inventory.ConsumeInput{ProductID: "p1", Quantity: decimal.NewFromInt(40)})
	require.NoError(t, err)

	_, name, err := f.uc.MovementsXLSX(ctx, "p1", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "movimientos-MP-001.xlsx", name)
	assert.Equal(t, "MP-001", f.exporter.product.SKU)
	assert.Len(t, f.exporter.movements, 2)

	_, _, err = f.uc.MovementsXLSX(ctx, "", nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, _, err = f.uc.MovementsXLSX(ctx, "no-existe", nil, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
