package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-mrp/internal/application/planning"
	"github.com/jhoicas/Inventario-mrp/internal/domain"
	"github.com/jhoicas/Inventario-mrp/internal/domain/entity"
	domaininv "github.com/jhoicas/Inventario-mrp/internal/domain/inventory"
	"github.com/jhoicas/Inventario-mrp/internal/domain/repository"
)

// ProductionPlanner verifica factibilidad antes de fabricar (implementado por planning.Planner).
type ProductionPlanner interface {
	Plan(ctx context.Context, finishedProductID string, desired decimal.Decimal) (*planning.PlanResult, error)
}

// ReceiveBatchInput recepción de un lote suelto: el costo unitario se calcula con AllocateUnitCost.
type ReceiveBatchInput struct {
	ProductID       string
	BatchNumber     string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	AdditionalCost  decimal.Decimal // flete, aranceles, etc. (se reparte sobre la cantidad)
	SourceType      string
	SourceReference string
	InboundDate     time.Time
	Location        string
	UserID          string
}

// PurchaseLine línea de una recepción de compra.
type PurchaseLine struct {
	ProductID   string
	BatchNumber string // vacío = <Reference>-<n>
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Location    string
}

// PurchaseReceipt recepción de una orden de compra con costo adicional a repartir entre las líneas.
type PurchaseReceipt struct {
	Reference      string
	Date           time.Time
	AdditionalCost decimal.Decimal
	SplitPolicy    string // VALUE (por defecto) o QUANTITY
	Lines          []PurchaseLine
	UserID         string
}

// ProductionOrder fabricación terminada lista para ingresar a inventario.
type ProductionOrder struct {
	Reference         string
	FinishedProductID string
	Quantity          decimal.Decimal
	BatchNumber       string // vacío = <Reference>
	Location          string
	Date              time.Time
	UserID            string
}

// ProductionResult lote terminado y consumos de componentes que lo costean.
type ProductionResult struct {
	Batch        *entity.InventoryBatch
	Consumptions []*ConsumptionResult
	TotalCost    decimal.Decimal
	UnitCost     decimal.Decimal
}

// ReceivingUseCase entradas de inventario: compras, producción terminada y lotes sueltos.
type ReceivingUseCase struct {
	catalog      repository.ProductRepository
	store        *BatchStore
	consumption  *ConsumptionEngine
	planner      ProductionPlanner
	costDecimals int32
}

// NewReceivingUseCase construye el caso de uso. costDecimals < 0 usa el valor por defecto;
// 0 es válido para monedas sin decimales (COP).
func NewReceivingUseCase(
	catalog repository.ProductRepository,
	store *BatchStore,
	consumption *ConsumptionEngine,
	planner ProductionPlanner,
	costDecimals int32,
) *ReceivingUseCase {
	if costDecimals < 0 {
		costDecimals = domaininv.DefaultCostDecimals
	}
	return &ReceivingUseCase{
		catalog:      catalog,
		store:        store,
		consumption:  consumption,
		planner:      planner,
		costDecimals: costDecimals,
	}
}

// ReceiveBatch crea un lote calculando su costo aterrizado.
func (uc *ReceivingUseCase) ReceiveBatch(ctx context.Context, in ReceiveBatchInput) (*entity.InventoryBatch, error) {
	if _, err := uc.getProduct(ctx, in.ProductID); err != nil {
		return nil, err
	}
	unitCost, err := domaininv.AllocateUnitCost(in.UnitPrice, in.Quantity, in.AdditionalCost, uc.costDecimals)
	if err != nil {
		return nil, err
	}
	return uc.store.CreateBatch(ctx, NewBatchInput{
		ProductID:       in.ProductID,
		BatchNumber:     in.BatchNumber,
		InboundQuantity: in.Quantity,
		UnitCost:        unitCost,
		SourceType:      in.SourceType,
		SourceReference: in.SourceReference,
		InboundDate:     in.InboundDate,
		Location:        in.Location,
		UserID:          in.UserID,
	})
}

// ReceivePurchase reparte el costo adicional entre las líneas y crea un lote PURCHASE por línea,
// todos en una sola transacción.
func (uc *ReceivingUseCase) ReceivePurchase(ctx context.Context, r PurchaseReceipt) ([]*entity.InventoryBatch, error) {
	r.Reference = strings.TrimSpace(r.Reference)
	if r.Reference == "" || len(r.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if r.SplitPolicy == "" {
		r.SplitPolicy = domaininv.SplitByValue
	}
	splitLines := make([]domaininv.CostSplitLine, 0, len(r.Lines))
	for _, l := range r.Lines {
		p, err := uc.getProduct(ctx, l.ProductID)
		if err != nil {
			return nil, err
		}
		if !p.IsRawMaterial() {
			return nil, fmt.Errorf("producto %s no es materia prima: %w", p.SKU, domain.ErrInvalidInput)
		}
		splitLines = append(splitLines, domaininv.CostSplitLine{Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}
	shares, err := domaininv.SplitAdditionalCost(r.AdditionalCost, splitLines, r.SplitPolicy, uc.costDecimals)
	if err != nil {
		return nil, err
	}

	inputs := make([]NewBatchInput, 0, len(r.Lines))
	for i, l := range r.Lines {
		unitCost, err := domaininv.AllocateUnitCost(l.UnitPrice, l.Quantity, shares[i], uc.costDecimals)
		if err != nil {
			return nil, err
		}
		number := strings.TrimSpace(l.BatchNumber)
		if number == "" {
			number = fmt.Sprintf("%s-%d", r.Reference, i+1)
		}
		inputs = append(inputs, NewBatchInput{
			ProductID:       l.ProductID,
			BatchNumber:     number,
			InboundQuantity: l.Quantity,
			UnitCost:        unitCost,
			SourceType:      entity.SourceTypePurchase,
			SourceReference: r.Reference,
			InboundDate:     r.Date,
			Location:        l.Location,
			UserID:          r.UserID,
		})
	}
	return uc.store.createBatches(ctx, inputs)
}

// CompleteProduction consume los componentes de la BOM en FIFO y crea el lote terminado costeado
// con el costo real consumido. La factibilidad se verifica antes con el planificador; si otro
// consumidor se adelanta entre la verificación y el consumo, los consumos ya hechos quedan
// registrados y se devuelven junto con el error.
// Una orden cuyo número de lote terminado ya existe se rechaza sin consumir nada.
func (uc *ReceivingUseCase) CompleteProduction(ctx context.Context, o ProductionOrder) (*ProductionResult, error) {
	o.Reference = strings.TrimSpace(o.Reference)
	if o.Reference == "" {
		return nil, domain.ErrInvalidInput
	}
	if !domaininv.ValidQuantity(o.Quantity) {
		return nil, domain.ErrInvalidQuantity
	}
	p, err := uc.getProduct(ctx, o.FinishedProductID)
	if err != nil {
		return nil, err
	}
	if !p.IsFinishedProduct() {
		return nil, domain.ErrInvalidInput
	}
	number := strings.TrimSpace(o.BatchNumber)
	if number == "" {
		number = o.Reference
	}
	taken, err := uc.store.batchNumberTaken(ctx, o.FinishedProductID, number)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("lote %s de %s: %w", number, p.SKU, domain.ErrDuplicateBatchNumber)
	}

	plan, err := uc.planner.Plan(ctx, o.FinishedProductID, o.Quantity)
	if err != nil {
		return nil, err
	}
	if len(plan.Components) == 0 {
		return nil, fmt.Errorf("producto %s sin lista de materiales: %w", p.SKU, domain.ErrInvalidInput)
	}
	for _, c := range plan.Components {
		if !domaininv.ValidQuantity(c.Required) {
			return nil, fmt.Errorf("componente %s requiere %s: %w", c.ComponentID, c.Required, domain.ErrInvalidQuantity)
		}
	}
	if short := plan.FirstShortage(); short != nil {
		return nil, &domain.ShortfallError{ProductID: short.ComponentID, Requested: short.Required, Available: short.Available}
	}

	res := &ProductionResult{TotalCost: decimal.Zero}
	for _, c := range plan.Components {
		cr, err := uc.consumption.Consume(ctx, ConsumeInput{
			ProductID:       c.ComponentID,
			Quantity:        c.Required,
			SourceType:      entity.SourceTypeConsumption,
			SourceReference: o.Reference,
			UserID:          o.UserID,
		})
		if cr != nil {
			res.Consumptions = append(res.Consumptions, cr)
			res.TotalCost = res.TotalCost.Add(cr.TotalCost)
		}
		if err != nil {
			return res, err
		}
		if cr.Shortfall.IsPositive() {
			return res, &domain.ShortfallError{ProductID: c.ComponentID, Requested: c.Required, Available: cr.QuantityTaken}
		}
	}

	res.UnitCost = res.TotalCost.Div(o.Quantity).Round(uc.costDecimals)
	batch, err := uc.store.CreateBatch(ctx, NewBatchInput{
		ProductID:       o.FinishedProductID,
		BatchNumber:     number,
		InboundQuantity: o.Quantity,
		UnitCost:        res.UnitCost,
		SourceType:      entity.SourceTypeProduction,
		SourceReference: o.Reference,
		InboundDate:     o.Date,
		Location:        o.Location,
		UserID:          o.UserID,
	})
	if err != nil {
		return res, err
	}
	res.Batch = batch
	return res, nil
}

func (uc *ReceivingUseCase) getProduct(ctx context.Context, productID string) (*entity.Product, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	p, err := uc.catalog.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}
