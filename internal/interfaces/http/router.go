package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-mrp/internal/application/inventory"
	"github.com/jhoicas/Inventario-mrp/internal/application/planning"
	"github.com/jhoicas/Inventario-mrp/internal/application/reporting"
	"github.com/jhoicas/Inventario-mrp/internal/application/usecase"
	"github.com/jhoicas/Inventario-mrp/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName     string
	ProductUC   *usecase.ProductUseCase
	BatchStore  *inventory.BatchStore
	Ledger      *inventory.MovementLedger
	Consumption *inventory.ConsumptionEngine
	Adjustments *inventory.AdjustmentEngine
	Receiving   *inventory.ReceivingUseCase
	Planner     *planning.Planner
	Reports     *reporting.ReportUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	writers := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)
	adminOnly := RequireRole(jwt.RoleAdmin)

	// Catálogo
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", adminOnly, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", adminOnly, productHandler.Update)
	products.Get("/:id/bom", productHandler.GetBOM)
	products.Put("/:id/bom", adminOnly, productHandler.ReplaceBOM)

	// Lotes, ledger y consumos
	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.BatchStore, deps.Ledger, deps.Consumption, deps.Receiving)
	inv.Post("/batches", writers, inventoryHandler.CreateBatch)
	inv.Get("/batches", inventoryHandler.ListBatches)
	inv.Get("/batches/:id", inventoryHandler.GetBatch)
	inv.Get("/batches/:id/movements", inventoryHandler.BatchMovements)
	inv.Get("/products/:id/remaining", inventoryHandler.Remaining)
	inv.Get("/products/:id/batches", inventoryHandler.AvailableBatches)
	inv.Get("/products/:id/movements", inventoryHandler.ProductMovements)
	inv.Post("/consumptions", writers, inventoryHandler.Consume)

	// Recepciones
	receiptHandler := NewReceiptHandler(deps.Receiving)
	inv.Post("/receipts/purchase", writers, receiptHandler.Purchase)
	inv.Post("/receipts/production", writers, receiptHandler.Production)

	// Ajustes
	adjustmentHandler := NewAdjustmentHandler(deps.Adjustments)
	inv.Post("/adjustments/increase", writers, adjustmentHandler.Increase)
	inv.Post("/adjustments/decrease", writers, adjustmentHandler.Decrease)

	// Planeación
	planningHandler := NewPlanningHandler(deps.Planner)
	api.Get("/planning/products/:id", planningHandler.Plan)

	// Reportes
	reportHandler := NewReportHandler(deps.Reports)
	api.Get("/reports/valuation.pdf", reportHandler.ValuationPDF)
	api.Get("/reports/movements.xlsx", reportHandler.MovementsXLSX)
}
