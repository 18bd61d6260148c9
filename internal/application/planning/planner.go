package planning

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-mrp/internal/domain"
	domaininv "github.com/jhoicas/Inventario-mrp/internal/domain/inventory"
	"github.com/jhoicas/Inventario-mrp/internal/domain/repository"
)

// AvailabilityReader fuente de disponibilidad por producto (el BatchStore o un decorador con caché).
type AvailabilityReader interface {
	GetRemaining(ctx context.Context, productID string) (decimal.Decimal, error)
}

// ComponentPlan necesidad de un componente de la BOM.
type ComponentPlan struct {
	ComponentID     string
	SKU             string
	Name            string
	QuantityPerUnit decimal.Decimal
	Required        decimal.Decimal
	Available       decimal.Decimal
	Shortfall       decimal.Decimal
}

// PlanResult respuesta del planificador. Es solo lectura: no reserva stock.
type PlanResult struct {
	FinishedProductID     string
	DesiredQuantity       decimal.Decimal
	Components            []ComponentPlan
	CanProduceAll         bool
	MaxProducibleQuantity int64
}

// FirstShortage devuelve el primer componente con faltante, o nil.
func (r *PlanResult) FirstShortage() *ComponentPlan {
	for i := range r.Components {
		if r.Components[i].Shortfall.IsPositive() {
			return &r.Components[i]
		}
	}
	return nil
}

// Planner responde "¿puedo fabricar N unidades?" cruzando la BOM con la disponibilidad actual.
type Planner struct {
	catalog      repository.ProductRepository
	availability AvailabilityReader
}

// NewPlanner construye el planificador.
func NewPlanner(catalog repository.ProductRepository, availability AvailabilityReader) *Planner {
	return &Planner{catalog: catalog, availability: availability}
}

// Plan calcula requerimientos, faltantes y máximo fabricable para el producto terminado.
func (p *Planner) Plan(ctx context.Context, finishedProductID string, desired decimal.Decimal) (*PlanResult, error) {
	if finishedProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !desired.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}
	product, err := p.catalog.GetByID(ctx, finishedProductID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if !product.IsFinishedProduct() {
		return nil, domain.ErrInvalidInput
	}
	bom, err := p.catalog.GetBOM(ctx, finishedProductID)
	if err != nil {
		return nil, fmt.Errorf("get bom: %w", err)
	}

	available := make(map[string]decimal.Decimal, len(bom))
	for _, line := range bom {
		if _, ok := available[line.ComponentProductID]; ok {
			continue
		}
		qty, err := p.availability.GetRemaining(ctx, line.ComponentProductID)
		if err != nil {
			return nil, fmt.Errorf("get remaining %s: %w", line.ComponentProductID, err)
		}
		available[line.ComponentProductID] = qty
	}

	req, err := domaininv.ComputeRequirements(bom, desired, available)
	if err != nil {
		return nil, err
	}

	res := &PlanResult{
		FinishedProductID:     finishedProductID,
		DesiredQuantity:       desired,
		Components:            make([]ComponentPlan, 0, len(req.Components)),
		CanProduceAll:         req.CanProduceAll,
		MaxProducibleQuantity: req.MaxProducibleQuantity,
	}
	for _, c := range req.Components {
		cp := ComponentPlan{
			ComponentID:     c.ComponentID,
			QuantityPerUnit: c.QuantityPerUnit,
			Required:        c.Required,
			Available:       c.Available,
			Shortfall:       c.Shortfall,
		}
		comp, err := p.catalog.GetByID(ctx, c.ComponentID)
		if err != nil {
			return nil, fmt.Errorf("get component: %w", err)
		}
		if comp != nil {
			cp.SKU = comp.SKU
			cp.Name = comp.Name
		}
		res.Components = append(res.Components, cp)
	}
	return res, nil
}
