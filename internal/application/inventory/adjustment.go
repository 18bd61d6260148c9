package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-mrp/internal/domain"
	"github.com/jhoicas/Inventario-mrp/internal/domain/entity"
	domaininv "github.com/jhoicas/Inventario-mrp/internal/domain/inventory"
	"github.com/jhoicas/Inventario-mrp/internal/domain/repository"
)

// IncreaseInput ajuste positivo: siempre crea un lote nuevo.
type IncreaseInput struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
	Reason    string
	Location  string
	UserID    string
}

// DecreaseInput ajuste negativo: descuenta FIFO.
type DecreaseInput struct {
	ProductID string
	Quantity  decimal.Decimal
	Reason    string
	UserID    string
}

// AdjustmentEngine correcciones manuales de stock.
type AdjustmentEngine struct {
	store   *BatchStore
	ledger  *MovementLedger
	catalog repository.ProductRepository
	locker  ProductLocker
}

// NewAdjustmentEngine construye el motor de ajustes. locker puede ser nil.
func NewAdjustmentEngine(store *BatchStore, ledger *MovementLedger, catalog repository.ProductRepository, locker ProductLocker) *AdjustmentEngine {
	if locker == nil {
		locker = NoopLocker()
	}
	return &AdjustmentEngine{store: store, ledger: ledger, catalog: catalog, locker: locker}
}

// Increase crea un lote de origen ADJUSTMENT con número sintético; nunca modifica lotes existentes.
func (a *AdjustmentEngine) Increase(ctx context.Context, in IncreaseInput) (*entity.InventoryBatch, error) {
	if !domaininv.ValidQuantity(in.Quantity) || in.UnitCost.IsNegative() {
		return nil, domain.ErrInvalidQuantity
	}
	if err := a.ensureProduct(ctx, in.ProductID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	adjID := uuid.New().String()
	batch, err := a.store.CreateBatch(ctx, NewBatchInput{
		ProductID:       in.ProductID,
		BatchNumber:     adjustmentBatchNumber(now, adjID),
		InboundQuantity: in.Quantity,
		UnitCost:        in.UnitCost,
		SourceType:      entity.SourceTypeAdjustment,
		SourceReference: adjID,
		InboundDate:     now,
		Location:        in.Location,
		Notes:           strings.TrimSpace(in.Reason),
		UserID:          in.UserID,
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// Decrease descuenta quantity en orden FIFO dentro de una sola transacción: bloquea los lotes
// disponibles y, si no alcanzan, devuelve *domain.ShortfallError sin tocar nada.
// Los movimientos de salida llevan como referencia el id del ajuste.
func (a *AdjustmentEngine) Decrease(ctx context.Context, in DecreaseInput) (*ConsumptionResult, error) {
	if !domaininv.ValidQuantity(in.Quantity) {
		return nil, domain.ErrInvalidQuantity
	}
	if err := a.ensureProduct(ctx, in.ProductID); err != nil {
		return nil, err
	}
	release, err := a.locker.Lock(ctx, in.ProductID)
	if err != nil {
		return nil, fmt.Errorf("lock product: %w", err)
	}
	defer release()

	adjID := uuid.New().String()
	reason := strings.TrimSpace(in.Reason)
	var res *ConsumptionResult
	err = a.store.txRunner.Run(ctx, func(ctx context.Context, batchRepo repository.BatchRepository, movRepo repository.InventoryMovementRepository) error {
		res = &ConsumptionResult{
			ProductID:     in.ProductID,
			Requested:     in.Quantity,
			QuantityTaken: decimal.Zero,
			TotalCost:     decimal.Zero,
			Shortfall:     decimal.Zero,
		}
		batches, err := batchRepo.ListAvailableFIFO(ctx, in.ProductID, true)
		if err != nil {
			return fmt.Errorf("lock fifo batches: %w", err)
		}
		available := decimal.Zero
		for _, b := range batches {
			available = available.Add(b.RemainingQuantity)
		}
		if available.LessThan(in.Quantity) {
			return &domain.ShortfallError{ProductID: in.ProductID, Requested: in.Quantity, Available: available}
		}
		pending := in.Quantity
		for _, b := range batches {
			if !pending.IsPositive() {
				break
			}
			take := decimal.Min(b.RemainingQuantity, pending)
			updated, err := a.store.deplete(ctx, batchRepo, b.ID, take)
			if err != nil {
				return err
			}
			mov, err := a.ledger.recordOutbound(ctx, movRepo, updated, take, entity.SourceTypeAdjustmentDecrease, adjID, reason, in.UserID)
			if err != nil {
				return err
			}
			line := ConsumptionLine{
				BatchID:       updated.ID,
				BatchNumber:   updated.BatchNumber,
				QuantityTaken: take,
				UnitCost:      updated.UnitCost,
				TotalCost:     take.Mul(updated.UnitCost),
				MovementID:    mov.ID,
			}
			res.Lines = append(res.Lines, line)
			res.QuantityTaken = res.QuantityTaken.Add(take)
			res.TotalCost = res.TotalCost.Add(line.TotalCost)
			pending = pending.Sub(take)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	a.store.invalidator.Invalidate(ctx, in.ProductID)
	return res, nil
}

func (a *AdjustmentEngine) ensureProduct(ctx context.Context, productID string) error {
	if productID == "" {
		return domain.ErrInvalidInput
	}
	p, err := a.catalog.GetByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("get product: %w", err)
	}
	if p == nil {
		return domain.ErrNotFound
	}
	return nil
}

// adjustmentBatchNumber AJ-YYYYMMDD-xxxxxxxx (prefijo del id del ajuste).
func adjustmentBatchNumber(at time.Time, adjID string) string {
	short := strings.ReplaceAll(adjID, "-", "")
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("AJ-%s-%s", at.Format("20060102"), strings.ToUpper(short))
}
