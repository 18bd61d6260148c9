package dto

import "github.com/jhoicas/Inventario-mrp/internal/domain/entity"

// ToBatchResponse convierte un lote a su salida HTTP.
func ToBatchResponse(b *entity.InventoryBatch) *BatchResponse {
	if b == nil {
		return nil
	}
	return &BatchResponse{
		ID:                b.ID,
		ProductID:         b.ProductID,
		BatchNumber:       b.BatchNumber,
		InboundQuantity:   b.InboundQuantity,
		RemainingQuantity: b.RemainingQuantity,
		UnitCost:          b.UnitCost,
		TotalCost:         b.TotalCost(),
		SourceType:        b.SourceType,
		SourceReference:   b.SourceReference,
		InboundDate:       b.InboundDate,
		Location:          b.Location,
		CreatedAt:         b.CreatedAt,
	}
}

// ToBatchResponses convierte una lista de lotes.
func ToBatchResponses(list []*entity.InventoryBatch) []BatchResponse {
	out := make([]BatchResponse, 0, len(list))
	for _, b := range list {
		out = append(out, *ToBatchResponse(b))
	}
	return out
}

// ToMovementResponses convierte movimientos del ledger.
func ToMovementResponses(list []*entity.InventoryMovement) []MovementResponse {
	out := make([]MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, MovementResponse{
			ID:                         m.ID,
			BatchID:                    m.BatchID,
			ProductID:                  m.ProductID,
			Type:                       m.Type,
			Quantity:                   m.Quantity,
			UnitCost:                   m.UnitCost,
			TotalCost:                  m.TotalCost,
			SourceType:                 m.SourceType,
			SourceReference:            m.SourceReference,
			ResultingRemainingQuantity: m.ResultingRemainingQuantity,
			Notes:                      m.Notes,
			CreatedAt:                  m.CreatedAt,
			CreatedBy:                  m.CreatedBy,
		})
	}
	return out
}
