package inventory

import (
	"github.com/jhoicas/Inventario-mrp/internal/domain"
	"github.com/jhoicas/Inventario-mrp/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ComponentRequirement requerimiento de un componente para construir la cantidad deseada.
type ComponentRequirement struct {
	ComponentID     string
	QuantityPerUnit decimal.Decimal
	Required        decimal.Decimal
	Available       decimal.Decimal
	Shortfall       decimal.Decimal
}

// Requirements resultado del cálculo de necesidades de materiales (lectura pura, sin reserva).
type Requirements struct {
	Components            []ComponentRequirement
	CanProduceAll         bool
	MaxProducibleQuantity int64
}

// ComputeRequirements cruza la BOM (un nivel) con la disponibilidad por componente.
//
//	Required  = QuantityPerUnit * desired
//	Shortfall = max(0, Required - Available)
//	Max       = floor(min(Available / QuantityPerUnit))
//
// Una BOM vacía no permite producir nada (Max = 0, CanProduceAll = false).
func ComputeRequirements(bom []entity.BOMLine, desired decimal.Decimal, available map[string]decimal.Decimal) (*Requirements, error) {
	if !desired.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}
	res := &Requirements{Components: make([]ComponentRequirement, 0, len(bom))}
	if len(bom) == 0 {
		return res, nil
	}

	canAll := true
	var maxQty decimal.Decimal
	for i, line := range bom {
		if !line.QuantityPerUnit.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		avail := available[line.ComponentProductID]
		if avail.IsNegative() {
			avail = decimal.Zero
		}
		required := line.QuantityPerUnit.Mul(desired)
		shortfall := required.Sub(avail)
		if shortfall.IsNegative() {
			shortfall = decimal.Zero
		}
		if shortfall.IsPositive() {
			canAll = false
		}
		buildable := avail.Div(line.QuantityPerUnit).Floor()
		if i == 0 || buildable.LessThan(maxQty) {
			maxQty = buildable
		}
		res.Components = append(res.Components, ComponentRequirement{
			ComponentID:     line.ComponentProductID,
			QuantityPerUnit: line.QuantityPerUnit,
			Required:        required,
			Available:       avail,
			Shortfall:       shortfall,
		})
	}
	res.CanProduceAll = canAll
	res.MaxProducibleQuantity = maxQty.IntPart()
	return res, nil
}
