package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-mrp/internal/application/dto"
	"github.com/jhoicas/Inventario-mrp/internal/application/inventory"
	"github.com/jhoicas/Inventario-mrp/internal/domain"
)

// ReceiptHandler recepciones de compra y de producción (protegido).
type ReceiptHandler struct {
	uc *inventory.ReceivingUseCase
}

// NewReceiptHandler construye el handler.
func NewReceiptHandler(uc *inventory.ReceivingUseCase) *ReceiptHandler {
	return &ReceiptHandler{uc: uc}
}

// Purchase godoc
// @Summary      Recepción de compra
// @Description  Reparte additional_cost entre las líneas (por valor o cantidad) y crea un lote por línea en una sola transacción.
// @Tags         receipts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PurchaseReceiptRequest  true  "Orden de compra y líneas"
// @Success      201   {array}   dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/receipts/purchase [post]
func (h *ReceiptHandler) Purchase(c *fiber.Ctx) error {
	var in dto.PurchaseReceiptRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	receipt := inventory.PurchaseReceipt{
		Reference:      in.Reference,
		AdditionalCost: in.AdditionalCost,
		SplitPolicy:    in.SplitPolicy,
		Lines:          make([]inventory.PurchaseLine, 0, len(in.Lines)),
		UserID:         GetUserID(c),
	}
	if in.Date != nil {
		receipt.Date = *in.Date
	}
	for _, l := range in.Lines {
		receipt.Lines = append(receipt.Lines, inventory.PurchaseLine{
			ProductID:   l.ProductID,
			BatchNumber: l.BatchNumber,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Location:    l.Location,
		})
	}
	batches, err := h.uc.ReceivePurchase(c.Context(), receipt)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToBatchResponses(batches))
}

// Production godoc
// @Summary      Recepción de producción terminada
// @Description  Verifica la BOM contra la disponibilidad, consume los componentes en FIFO y crea el lote terminado con el costo real.
// @Tags         receipts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProductionReceiptRequest  true  "Orden de producción"
// @Success      201   {object}  dto.ProductionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ShortfallResponse  "faltante antes de consumir, o PRODUCTION_INCOMPLETE con los consumos confirmados en partial"
// @Router       /api/inventory/receipts/production [post]
func (h *ReceiptHandler) Production(c *fiber.Ctx) error {
	var in dto.ProductionReceiptRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	order := inventory.ProductionOrder{
		Reference:         in.Reference,
		FinishedProductID: in.FinishedProductID,
		Quantity:          in.Quantity,
		BatchNumber:       in.BatchNumber,
		Location:          in.Location,
		UserID:            GetUserID(c),
	}
	if in.Date != nil {
		order.Date = *in.Date
	}
	res, err := h.uc.CompleteProduction(c.Context(), order)
	if err != nil {
		if res != nil && len(res.Consumptions) > 0 {
			body := fiber.Map{
				"code":    "PRODUCTION_INCOMPLETE",
				"message": "la producción no se completó; los consumos confirmados quedan registrados",
				"partial": toProductionResponse(res),
			}
			var sf *domain.ShortfallError
			if errors.As(err, &sf) {
				body["product_id"] = sf.ProductID
				body["shortfall"] = sf.Shortfall()
			}
			return c.Status(fiber.StatusConflict).JSON(body)
		}
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toProductionResponse(res))
}
