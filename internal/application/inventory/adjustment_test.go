package inventory_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-mrp/internal/application/inventory"
	"github.com/jhoicas/Inventario-mrp/internal/domain"
	"github.com/jhoicas/Inventario-mrp/internal/domain/entity"
)

func TestIncrease_CreaLoteDeAjusteSinTocarExistentes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.product(t, "mp-1", entity.ProductKindRawMaterial)
	existing := f.batch(t, "mp-1", "L-1", "10", "1.00", baseDate)

	b, err := f.adjustments.Increase(ctx, inventory.IncreaseInput{
		ProductID: "mp-1", Quantity: dec("4"), UnitCost: dec("1.50"), Reason: "conteo físico", UserID: "u-1",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SourceTypeAdjustment, b.SourceType)
	assert.True(t, strings.HasPrefix(b.BatchNumber, "AJ-"), b.BatchNumber)
	assert.Len(t, b.BatchNumber, len("AJ-20240301-ABCDEF12"))
	assert.NotEmpty(t, b.SourceReference)
	assertDec(t, "14", f.remaining(t, "mp-1"))

	again, err := f.batches.GetBatch(ctx, existing.ID)
	require.NoError(t, err)
	assertDec(t, "10", again.RemainingQuantity)
	assertDec(t, "10", again.InboundQuantity)

	movs, err := f.ledger.ListByBatch(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, "conteo físico", movs[0].Notes)
	assert.Equal(t, "u-1", movs[0].CreatedBy)
}

func TestIncrease_ProductoInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.adjustments.Increase(context.Background(), inventory.IncreaseInput{ProductID: "nope", Quantity: dec("1"), UnitCost: dec("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDecrease_DescuentaFIFO(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.product(t, "mp-1", entity.ProductKindRawMaterial)
	b1 := f.batch(t, "mp-1", "L-1", "5", "1.00", baseDate)
	b2 := f.batch(t, "mp-1", "L-2", "5", "3.00", baseDate.AddDate(0, 0, 1))

	res, err := f.adjustments.Decrease(ctx, inventory.DecreaseInput{ProductID: "mp-1", Quantity: dec("7"), Reason: "merma"})
	require.NoError(t, err)
	require.Len(t, res.Lines, 2)
	assert.Equal(t, b1.ID, res.Lines[0].BatchID)
	assertDec(t, "5", res.Lines[0].QuantityTaken)
	assert.Equal(t, b2.ID, res.Lines[1].BatchID)
	assertDec(t, "2", res.Lines[1].QuantityTaken)
	assertDec(t, "11", res.TotalCost)
	assertDec(t, "3", f.remaining(t, "mp-1"))

	movs, err := f.ledger.ListByBatch(ctx, b2.ID)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.SourceTypeAdjustmentDecrease, movs[1].SourceType)
	assert.Equal(t, "merma", movs[1].Notes)
	f.requireConsistent(t, b1.ID)
	f.requireConsistent(t, b2.ID)
}

func TestDecrease_StockInsuficienteNoTocaNada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.product(t, "mp-1", entity.ProductKindRawMaterial)
	b := f.batch(t, "mp-1", "L-1", "5", "1.00", baseDate)

	_, err := f.adjustments.Decrease(ctx, inventory.DecreaseInput{ProductID: "mp-1", Quantity: dec("8"), Reason: "merma"})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	var sf *domain.ShortfallError
	require.True(t, errors.As(err, &sf))
	assertDec(t, "3", sf.Shortfall())
	assertDec(t, "5", sf.Available)

	assertDec(t, "5", f.remaining(t, "mp-1"))
	movs, err := f.ledger.ListByBatch(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, movs, 1, "no debe registrar salidas")
}

func TestDecrease_CantidadInvalida(t *testing.T) {
	f := newFixture(t)
	_, err := f.adjustments.Decrease(context.Background(), inventory.DecreaseInput{ProductID: "mp-1", Quantity: dec("-2")})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = f.adjustments.Decrease(context.Background(), inventory.DecreaseInput{ProductID: "mp-1", Quantity: dec("1.1234567")})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = f.adjustments.Increase(context.Background(), inventory.IncreaseInput{ProductID: "mp-1", Quantity: dec("1.1234567"), UnitCost: dec("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}
