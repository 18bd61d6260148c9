package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-mrp/internal/domain"
	"github.com/jhoicas/Inventario-mrp/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestAllocateUnitCost_SumaPoolPorUnidad(t *testing.T) {
	cost, err := inventory.AllocateUnitCost(d("10"), d("100"), d("50"), inventory.DefaultCostDecimals)
	require.NoError(t, err)
	assert.True(t, cost.Equal(d("10.50")), "10 + 50/100 = 10.50, obtenido %s", cost)
}

func TestAllocateUnitCost_SinPool(t *testing.T) {
	cost, err := inventory.AllocateUnitCost(d("4.999"), d("3"), decimal.Zero, 2)
	require.NoError(t, err)
	assert.True(t, cost.Equal(d("5.00")))
}

func TestAllocateUnitCost_RedondeoHalfUp(t *testing.T) {
	// 1 + 0.01/2 = 1.005 -> 1.01 (half-up, no truncar)
	cost, err := inventory.AllocateUnitCost(d("1"), d("2"), d("0.01"), 2)
	require.NoError(t, err)
	assert.True(t, cost.Equal(d("1.01")), "obtenido %s", cost)
}

func TestAllocateUnitCost_EntradasInvalidas(t *testing.T) {
	cases := []struct {
		name       string
		base, q, p string
	}{
		{"cantidad cero", "1", "0", "0"},
		{"cantidad negativa", "1", "-5", "0"},
		{"precio negativo", "-1", "5", "0"},
		{"pool negativo", "1", "5", "-3"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := inventory.AllocateUnitCost(d(tc.base), d(tc.q), d(tc.p), 2)
			assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
		})
	}
}

// unitCost * q == p*q + pool dentro de la tolerancia de redondeo (q * media unidad menor).
func TestAllocateUnitCost_IdaYVuelta(t *testing.T) {
	cases := []struct{ base, q, pool string }{
		{"3.20", "7", "11.13"},
		{"0", "3", "10"},
		{"12.5", "0.75", "1.1"},
		{"99.99", "1234", "567.89"},
	}
	half := d("0.005")
	for _, tc := range cases {
		cost, err := inventory.AllocateUnitCost(d(tc.base), d(tc.q), d(tc.pool), 2)
		require.NoError(t, err)
		got := cost.Mul(d(tc.q))
		want := d(tc.base).Mul(d(tc.q)).Add(d(tc.pool))
		tolerance := d(tc.q).Mul(half)
		assert.True(t, got.Sub(want).Abs().LessThanOrEqual(tolerance),
			"base=%s q=%s pool=%s: %s vs %s", tc.base, tc.q, tc.pool, got, want)
	}
}

func TestSplitAdditionalCost_PorValorSumaExacta(t *testing.T) {
	lines := []inventory.CostSplitLine{
		{Quantity: d("1"), UnitPrice: d("10")},
		{Quantity: d("1"), UnitPrice: d("10")},
		{Quantity: d("1"), UnitPrice: d("10")},
	}
	shares, err := inventory.SplitAdditionalCost(d("100"), lines, inventory.SplitByValue, 2)
	require.NoError(t, err)
	require.Len(t, shares, 3)
	sum := decimal.Zero
	for _, s := range shares {
		sum = sum.Add(s)
	}
	assert.True(t, sum.Equal(d("100")), "suma %s", sum)
	assert.True(t, shares[0].Equal(d("33.34")))
	assert.True(t, shares[1].Equal(d("33.33")))
}

func TestSplitAdditionalCost_PorCantidad(t *testing.T) {
	lines := []inventory.CostSplitLine{
		{Quantity: d("30"), UnitPrice: d("1")},
		{Quantity: d("10"), UnitPrice: d("100")},
	}
	shares, err := inventory.SplitAdditionalCost(d("40"), lines, inventory.SplitByQuantity, 2)
	require.NoError(t, err)
	assert.True(t, shares[0].Equal(d("30")))
	assert.True(t, shares[1].Equal(d("10")))
}

func TestSplitAdditionalCost_ValorCeroUsaCantidad(t *testing.T) {
	lines := []inventory.CostSplitLine{
		{Quantity: d("1"), UnitPrice: decimal.Zero},
		{Quantity: d("3"), UnitPrice: decimal.Zero},
	}
	shares, err := inventory.SplitAdditionalCost(d("8"), lines, inventory.SplitByValue, 2)
	require.NoError(t, err)
	assert.True(t, shares[0].Equal(d("2")))
	assert.True(t, shares[1].Equal(d("6")))
}

func TestSplitAdditionalCost_Invalido(t *testing.T) {
	_, err := inventory.SplitAdditionalCost(d("10"), nil, inventory.SplitByValue, 2)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = inventory.SplitAdditionalCost(d("10"), []inventory.CostSplitLine{{Quantity: d("1")}}, "WEIGHT", 2)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = inventory.SplitAdditionalCost(d("10"), []inventory.CostSplitLine{{Quantity: decimal.Zero}}, inventory.SplitByQuantity, 2)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}
