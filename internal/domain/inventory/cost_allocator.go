package inventory

import (
	"sort"

	"github.com/jhoicas/Inventario-mrp/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultCostDecimals precisión de la unidad menor de la moneda (centavos).
const DefaultCostDecimals int32 = 2

// Políticas para repartir un pool de costos adicionales entre las líneas de una recepción.
const (
	SplitByValue    = "VALUE"    // proporcional a cantidad * precio
	SplitByQuantity = "QUANTITY" // proporcional a la cantidad
)

// AllocateUnitCost calcula el costo aterrizado por unidad de un lote (servicio de dominio).
// CostoUnitario = PrecioBase + PoolAdicional / CantidadRecibida, redondeado half-up a `places` decimales.
func AllocateUnitCost(baseUnitPrice, receiptQuantity, additionalCostPool decimal.Decimal, places int32) (decimal.Decimal, error) {
	if !receiptQuantity.IsPositive() {
		return decimal.Zero, domain.ErrInvalidQuantity
	}
	if baseUnitPrice.IsNegative() || additionalCostPool.IsNegative() {
		return decimal.Zero, domain.ErrInvalidQuantity
	}
	unit := baseUnitPrice
	if !additionalCostPool.IsZero() {
		unit = unit.Add(additionalCostPool.Div(receiptQuantity))
	}
	// Valores no negativos: Round (half away from zero) equivale a half-up.
	return unit.Round(places), nil
}

// CostSplitLine datos de una línea de recepción para repartir el pool.
type CostSplitLine struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// SplitAdditionalCost reparte el pool entre las líneas según la política. Las partes suman
// exactamente el pool (método del mayor residuo sobre la unidad menor de la moneda).
// Con SplitByValue y valor total cero se reparte por cantidad.
func SplitAdditionalCost(pool decimal.Decimal, lines []CostSplitLine, policy string, places int32) ([]decimal.Decimal, error) {
	if pool.IsNegative() || len(lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if policy == "" {
		policy = SplitByValue
	}
	if policy != SplitByValue && policy != SplitByQuantity {
		return nil, domain.ErrInvalidInput
	}

	weights := make([]decimal.Decimal, len(lines))
	total := decimal.Zero
	for i, l := range lines {
		if !l.Quantity.IsPositive() {
			return nil, domain.ErrInvalidQuantity
		}
		if l.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		w := l.Quantity
		if policy == SplitByValue {
			w = l.Quantity.Mul(l.UnitPrice)
		}
		weights[i] = w
		total = total.Add(w)
	}
	if total.IsZero() {
		for i, l := range lines {
			weights[i] = l.Quantity
		}
		total = decimal.Zero
		for _, w := range weights {
			total = total.Add(w)
		}
	}

	shares := make([]decimal.Decimal, len(lines))
	type residue struct {
		idx  int
		frac decimal.Decimal
	}
	residues := make([]residue, len(lines))
	assigned := decimal.Zero
	for i, w := range weights {
		raw := pool.Mul(w).Div(total)
		floor := raw.Truncate(places)
		shares[i] = floor
		residues[i] = residue{idx: i, frac: raw.Sub(floor)}
		assigned = assigned.Add(floor)
	}

	minor := decimal.New(1, -places)
	left := pool.Round(places).Sub(assigned)
	sort.SliceStable(residues, func(a, b int) bool {
		return residues[a].frac.GreaterThan(residues[b].frac)
	})
	for i := 0; left.IsPositive() && i < len(residues); i++ {
		shares[residues[i].idx] = shares[residues[i].idx].Add(minor)
		left = left.Sub(minor)
	}
	return shares, nil
}
