package http

import (
	"github.com/jhoicas/Inventario-mrp/internal/application/dto"
	"github.com/jhoicas/Inventario-mrp/internal/application/inventory"
	"github.com/jhoicas/Inventario-mrp/internal/application/planning"
)

func toConsumptionResponse(r *inventory.ConsumptionResult) dto.ConsumptionResponse {
	out := dto.ConsumptionResponse{
		ProductID:     r.ProductID,
		Requested:     r.Requested,
		QuantityTaken: r.QuantityTaken,
		TotalCost:     r.TotalCost,
		Shortfall:     r.Shortfall,
		Lines:         make([]dto.ConsumptionLineResponse, 0, len(r.Lines)),
	}
	for _, l := range r.Lines {
		out.Lines = append(out.Lines, dto.ConsumptionLineResponse{
			BatchID:       l.BatchID,
			BatchNumber:   l.BatchNumber,
			QuantityTaken: l.QuantityTaken,
			UnitCost:      l.UnitCost,
			TotalCost:     l.TotalCost,
		})
	}
	return out
}

func toProductionResponse(r *inventory.ProductionResult) dto.ProductionResponse {
	out := dto.ProductionResponse{
		Batch:        dto.ToBatchResponse(r.Batch),
		Consumptions: make([]dto.ConsumptionResponse, 0, len(r.Consumptions)),
		TotalCost:    r.TotalCost,
		UnitCost:     r.UnitCost,
	}
	for _, cr := range r.Consumptions {
		out.Consumptions = append(out.Consumptions, toConsumptionResponse(cr))
	}
	return out
}

func toPlanResponse(r *planning.PlanResult) dto.PlanResponse {
	out := dto.PlanResponse{
		FinishedProductID:     r.FinishedProductID,
		DesiredQuantity:       r.DesiredQuantity,
		Components:            make([]dto.ComponentPlanResponse, 0, len(r.Components)),
		CanProduceAll:         r.CanProduceAll,
		MaxProducibleQuantity: r.MaxProducibleQuantity,
	}
	for _, cp := range r.Components {
		out.Components = append(out.Components, dto.ComponentPlanResponse{
			ComponentID:     cp.ComponentID,
			SKU:             cp.SKU,
			Name:            cp.Name,
			QuantityPerUnit: cp.QuantityPerUnit,
			Required:        cp.Required,
			Available:       cp.Available,
			Shortfall:       cp.Shortfall,
		})
	}
	return out
}
