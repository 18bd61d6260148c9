package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-mrp/internal/application/dto"
	"github.com/jhoicas/Inventario-mrp/internal/application/inventory"
	"github.com/jhoicas/Inventario-mrp/internal/domain"
	"github.com/jhoicas/Inventario-mrp/internal/domain/entity"
	"github.com/jhoicas/Inventario-mrp/internal/domain/repository"
)

// InventoryHandler maneja lotes, ledger y consumos (protegido).
type InventoryHandler struct {
	store       *inventory.BatchStore
	ledger      *inventory.MovementLedger
	consumption *inventory.ConsumptionEngine
	receiving   *inventory.ReceivingUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	store *inventory.BatchStore,
	ledger *inventory.MovementLedger,
	consumption *inventory.ConsumptionEngine,
	receiving *inventory.ReceivingUseCase,
) *InventoryHandler {
	return &InventoryHandler{store: store, ledger: ledger, consumption: consumption, receiving: receiving}
}

// CreateBatch godoc
// @Summary      Registrar un lote (recepción genérica)
// @Description  El costo unitario se calcula como unit_price + additional_cost / quantity, redondeado.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBatchRequest  true  "Datos del lote"
// @Success      201   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/batches [post]
func (h *InventoryHandler) CreateBatch(c *fiber.Ctx) error {
	var in dto.CreateBatchRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	input := inventory.ReceiveBatchInput{
		ProductID:       in.ProductID,
		BatchNumber:     in.BatchNumber,
		Quantity:        in.Quantity,
		UnitPrice:       in.UnitPrice,
		AdditionalCost:  in.AdditionalCost,
		SourceType:      in.SourceType,
		SourceReference: in.SourceReference,
		Location:        in.Location,
		UserID:          GetUserID(c),
	}
	if in.InboundDate != nil {
		input.InboundDate = *in.InboundDate
	}
	batch, err := h.receiving.ReceiveBatch(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToBatchResponse(batch))
}

// GetBatch godoc
// @Summary      Obtener lote por ID
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.BatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/batches/{id} [get]
func (h *InventoryHandler) GetBatch(c *fiber.Ctx) error {
	batch, err := h.store.GetBatch(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToBatchResponse(batch))
}

// ListBatches godoc
// @Summary      Listar lotes en orden de registro
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        available   query  bool    false  "Solo lotes con saldo"
// @Param        limit       query  int     false  "Límite"  default(100)
// @Success      200  {array}  dto.BatchResponse
// @Router       /api/inventory/batches [get]
func (h *InventoryHandler) ListBatches(c *fiber.Ctx) error {
	list, err := h.store.ListBatches(c.Context(), repository.BatchFilter{
		ProductID:     c.Query("product_id"),
		OnlyAvailable: c.QueryBool("available", false),
		Limit:         c.QueryInt("limit", 100),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToBatchResponses(list))
}

// BatchMovements godoc
// @Summary      Historial de un lote con su conciliación
// @Description  Devuelve los movimientos del ledger y verifica que entrada + salidas = saldo.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.BatchMovementsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/batches/{id}/movements [get]
func (h *InventoryHandler) BatchMovements(c *fiber.Ctx) error {
	id := c.Params("id")
	batch, err := h.store.GetBatch(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	movs, err := h.ledger.ListByBatch(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	audit, err := h.ledger.VerifyBatch(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.BatchMovementsResponse{
		Batch:      *dto.ToBatchResponse(batch),
		Movements:  dto.ToMovementResponses(movs),
		Consistent: audit.Consistent,
		Problems:   audit.Problems,
	})
}

// Remaining godoc
// @Summary      Disponibilidad de un producto (suma de lotes con saldo)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.RemainingResponse
// @Router       /api/inventory/products/{id}/remaining [get]
func (h *InventoryHandler) Remaining(c *fiber.Ctx) error {
	id := c.Params("id")
	qty, err := h.store.GetRemaining(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.RemainingResponse{ProductID: id, Remaining: qty})
}

// AvailableBatches godoc
// @Summary      Lotes con saldo en orden FIFO
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {array}  dto.BatchResponse
// @Router       /api/inventory/products/{id}/batches [get]
func (h *InventoryHandler) AvailableBatches(c *fiber.Ctx) error {
	list, err := h.store.ListAvailableBatchesFIFO(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToBatchResponses(list))
}

// ProductMovements godoc
// @Summary      Ledger de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        from    query  string  false  "Desde (YYYY-MM-DD o RFC3339)"
// @Param        to      query  string  false  "Hasta (YYYY-MM-DD o RFC3339)"
// @Param        limit   query  int     false  "Límite"  default(50)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id}/movements [get]
func (h *InventoryHandler) ProductMovements(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return respondError(c, err)
	}
	movs, err := h.ledger.ListByProduct(c.Context(), c.Params("id"), from, to, c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToMovementResponses(movs))
}

// Consume godoc
// @Summary      Consumir materia prima en orden FIFO
// @Description  Si el stock no alcanza se consume lo disponible y shortfall indica el faltante.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConsumeRequest  true  "product_id, quantity, source_reference (orden de producción)"
// @Success      200   {object}  dto.ConsumptionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/inventory/consumptions [post]
func (h *InventoryHandler) Consume(c *fiber.Ctx) error {
	var in dto.ConsumeRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	res, err := h.consumption.Consume(c.Context(), inventory.ConsumeInput{
		ProductID:       in.ProductID,
		Quantity:        in.Quantity,
		SourceType:      entity.SourceTypeConsumption,
		SourceReference: in.SourceReference,
		UserID:          GetUserID(c),
	})
	if err != nil {
		if res != nil && errors.Is(err, domain.ErrInsufficientBatchQuantity) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"code":    "BATCH_CONSUMED_CONCURRENTLY",
				"message": "otro proceso consumió un lote; se confirmó un consumo parcial",
				"partial": toConsumptionResponse(res),
			})
		}
		return respondError(c, err)
	}
	return c.JSON(toConsumptionResponse(res))
}

// parseDateRange lee from/to como fecha (YYYY-MM-DD, to incluye el día completo) o RFC3339.
func parseDateRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	parse := func(s string, endOfDay bool) (*time.Time, error) {
		if s == "" {
			return nil, nil
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return &t, nil
		}
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		if endOfDay {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return &t, nil
	}
	if from, err = parse(c.Query("from"), false); err != nil {
		return nil, nil, err
	}
	if to, err = parse(c.Query("to"), true); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}
