package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-mrp/internal/application/dto"
	"github.com/jhoicas/Inventario-mrp/internal/application/inventory"
)

// AdjustmentHandler ajustes manuales de inventario (protegido).
type AdjustmentHandler struct {
	engine *inventory.AdjustmentEngine
}

// NewAdjustmentHandler construye el handler.
func NewAdjustmentHandler(engine *inventory.AdjustmentEngine) *AdjustmentHandler {
	return &AdjustmentHandler{engine: engine}
}

// Increase godoc
// @Summary      Ajuste positivo
// @Description  Crea un lote ADJUSTMENT con el costo indicado.
// @Tags         adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IncreaseAdjustmentRequest  true  "Producto, cantidad, costo unitario y motivo"
// @Success      201   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments/increase [post]
func (h *AdjustmentHandler) Increase(c *fiber.Ctx) error {
	var in dto.IncreaseAdjustmentRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	batch, err := h.engine.Increase(c.Context(), inventory.IncreaseInput{
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		UnitCost:  in.UnitCost,
		Reason:    in.Reason,
		Location:  in.Location,
		UserID:    GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToBatchResponse(batch))
}

// Decrease godoc
// @Summary      Ajuste negativo
// @Description  Descuenta en FIFO de forma atómica; si el stock no alcanza no se descuenta nada (409).
// @Tags         adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DecreaseAdjustmentRequest  true  "Producto, cantidad y motivo"
// @Success      200   {object}  dto.ConsumptionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ShortfallResponse
// @Router       /api/inventory/adjustments/decrease [post]
func (h *AdjustmentHandler) Decrease(c *fiber.Ctx) error {
	var in dto.DecreaseAdjustmentRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	res, err := h.engine.Decrease(c.Context(), inventory.DecreaseInput{
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		Reason:    in.Reason,
		UserID:    GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toConsumptionResponse(res))
}
