package dto

import "github.com/shopspring/decimal"

// ComponentPlanResponse necesidad de un componente.
type ComponentPlanResponse struct {
	ComponentID     string          `json:"component_id"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit"`
	Required        decimal.Decimal `json:"required"`
	Available       decimal.Decimal `json:"available"`
	Shortfall       decimal.Decimal `json:"shortfall"`
}

// PlanResponse respuesta de GET /api/planning/products/:id.
type PlanResponse struct {
	FinishedProductID     string                  `json:"finished_product_id"`
	DesiredQuantity       decimal.Decimal         `json:"desired_quantity"`
	Components            []ComponentPlanResponse `json:"components"`
	CanProduceAll         bool                    `json:"can_produce_all"`
	MaxProducibleQuantity int64                   `json:"max_producible_quantity"`
}
