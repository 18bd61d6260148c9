package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-mrp/internal/application/inventory"
	"github.com/jhoicas/Inventario-mrp/internal/domain"
	"github.com/jhoicas/Inventario-mrp/internal/domain/entity"
	"github.com/jhoicas/Inventario-mrp/internal/domain/repository"
)

func TestCreateBatch_RegistraEntradaUnica(t *testing.T) {
	f := newFixture(t)
	f.product(t, "mp-1", entity.ProductKindRawMaterial)

	b := f.batch(t, "mp-1", "L-001", "100", "5.00", baseDate)

	assertDec(t, "100", b.RemainingQuantity)
	assertDec(t, "500", b.TotalCost())
	assert.NotZero(t, b.Sequence)

	movs, err := f.ledger.ListByBatch(context.Background(), b.ID)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeIN, movs[0].Type)
	assert.Equal(t, entity.SourceTypePurchase, movs[0].SourceType)
	assertDec(t, "100", movs[0].Quantity)
	assertDec(t, "100", movs[0].ResultingRemainingQuantity)
	assertDec(t, "500", movs[0].TotalCost)
	assert.True(t, f.invalidated.seen("mp-1"), "debe invalidar la caché del producto")
}

func TestCreateBatch_NumeroDuplicadoPorProducto(t *testing.T) {
	f := newFixture(t)
	f.product(t, "mp-1", entity.ProductKindRawMaterial)
	f.product(t, "mp-2", entity.ProductKindRawMaterial)
	f.batch(t, "mp-1", "L-001", "10", "1", baseDate)

	_, err := f.batches.CreateBatch(context.Background(), inventory.NewBatchInput{
		ProductID: "mp-1", BatchNumber: "L-001", InboundQuantity: dec("5"), UnitCost: dec("1"),
		SourceType: entity.SourceTypePurchase,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateBatchNumber)
	assertDec(t, "10", f.remaining(t, "mp-1"))

	// El mismo número en otro producto es válido.
	f.batch(t, "mp-2", "L-001", "3", "1", baseDate)
	assertDec(t, "3", f.remaining(t, "mp-2"))
}

func TestCreateBatch_EntradasInvalidas(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		name string
		in   inventory.NewBatchInput
		err  error
	}{
		{"cantidad cero", inventory.NewBatchInput{ProductID: "p", BatchNumber: "L", InboundQuantity: dec("0"), UnitCost: dec("1"), SourceType: entity.SourceTypePurchase}, domain.ErrInvalidQuantity},
		{"cantidad negativa", inventory.NewBatchInput{ProductID: "p", BatchNumber: "L", InboundQuantity: dec("-1"), UnitCost: dec("1"), SourceType: entity.SourceTypePurchase}, domain.ErrInvalidQuantity},
		{"costo negativo", inventory.NewBatchInput{ProductID: "p", BatchNumber: "L", InboundQuantity: dec("1"), UnitCost: dec("-0.01"), SourceType: entity.SourceTypePurchase}, domain.ErrInvalidQuantity},
		{"sin número", inventory.NewBatchInput{ProductID: "p", BatchNumber: "  ", InboundQuantity: dec("1"), UnitCost: dec("1"), SourceType: entity.SourceTypePurchase}, domain.ErrInvalidInput},
		{"origen de salida", inventory.NewBatchInput{ProductID: "p", BatchNumber: "L", InboundQuantity: dec("1"), UnitCost: dec("1"), SourceType: entity.SourceTypeConsumption}, domain.ErrInvalidInput},
		{"más de 6 decimales", inventory.NewBatchInput{ProductID: "p", BatchNumber: "L", InboundQuantity: dec("1.0000001"), UnitCost: dec("1"), SourceType: entity.SourceTypePurchase}, domain.ErrInvalidQuantity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.batches.CreateBatch(context.Background(), tc.in)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestGetRemaining_ProductoSinLotesEsCero(t *testing.T) {
	f := newFixture(t)
	assertDec(t, "0", f.remaining(t, "no-existe"))
}

func TestListAvailableBatchesFIFO_FechaYOrdenDeCreacion(t *testing.T) {
	f := newFixture(t)
	f.product(t, "mp-1", entity.ProductKindRawMaterial)
	later := f.batch(t, "mp-1", "L-3", "1", "1", baseDate.AddDate(0, 0, 2))
	first := f.batch(t, "mp-1", "L-1", "1", "1", baseDate)
	second := f.batch(t, "mp-1", "L-2", "1", "1", baseDate)

	list, err := f.batches.ListAvailableBatchesFIFO(context.Background(), "mp-1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{first.ID, second.ID, later.ID}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func TestListBatches_IncluyeAgotados(t *testing.T) {
	f := newFixture(t)
	f.product(t, "mp-1", entity.ProductKindRawMaterial)
	b := f.batch(t, "mp-1", "L-1", "5", "1", baseDate)
	f.batch(t, "mp-1", "L-2", "5", "1", baseDate.AddDate(0, 0, 1))

	_, err := f.consumption.Consume(context.Background(), inventory.ConsumeInput{ProductID: "mp-1", Quantity: dec("5"), SourceReference: "OP-1"})
	require.NoError(t, err)

	all, err := f.batches.ListBatches(context.Background(), repository.BatchFilter{ProductID: "mp-1"})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	available, err := f.batches.ListBatches(context.Background(), repository.BatchFilter{ProductID: "mp-1", OnlyAvailable: true})
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.NotEqual(t, b.ID, available[0].ID)

	got, err := f.batches.GetBatch(context.Background(), b.ID)
	require.NoError(t, err)
	assert.True(t, got.IsExhausted(), "un lote agotado se conserva")
}

func TestGetBatch_NoEncontrado(t *testing.T) {
	f := newFixture(t)
	_, err := f.batches.GetBatch(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateBatch_CerosFinalesNoCuentanComoDecimales(t *testing.T) {
	f := newFixture(t)
	f.product(t, "mp-1", entity.ProductKindRawMaterial)
	b := f.batch(t, "mp-1", "L-1", "2.500000000", "1", baseDate)
	assertDec(t, "2.5", b.RemainingQuantity)
}
