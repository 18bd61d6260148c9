package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-mrp/internal/application/dto"
	"github.com/jhoicas/Inventario-mrp/internal/application/planning"
)

// PlanningHandler factibilidad de producción según BOM (protegido).
type PlanningHandler struct {
	planner *planning.Planner
}

// NewPlanningHandler construye el handler.
func NewPlanningHandler(planner *planning.Planner) *PlanningHandler {
	return &PlanningHandler{planner: planner}
}

// Plan godoc
// @Summary      Plan de requerimientos de materiales
// @Description  Calcula por componente lo requerido, disponible y faltante, y la cantidad máxima producible.
// @Tags         planning
// @Security     Bearer
// @Produce      json
// @Param        id        path   string  true  "ID del producto terminado"
// @Param        quantity  query  string  true  "Cantidad deseada"
// @Success      200  {object}  dto.PlanResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/planning/products/{id} [get]
func (h *PlanningHandler) Plan(c *fiber.Ctx) error {
	qty, err := decimal.NewFromString(c.Query("quantity"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: "quantity debe ser numérico"})
	}
	plan, err := h.planner.Plan(c.Context(), c.Params("id"), qty)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toPlanResponse(plan))
}
