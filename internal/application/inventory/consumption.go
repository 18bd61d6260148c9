package inventory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-mrp/internal/domain"
	"github.com/jhoicas/Inventario-mrp/internal/domain/entity"
	domaininv "github.com/jhoicas/Inventario-mrp/internal/domain/inventory"
	"github.com/jhoicas/Inventario-mrp/internal/domain/repository"
)

// ConsumeInput solicitud de consumo FIFO.
type ConsumeInput struct {
	ProductID       string
	Quantity        decimal.Decimal
	SourceType      string // CONSUMPTION (por defecto) o ADJUSTMENT_DECREASE
	SourceReference string
	Notes           string
	UserID          string
}

// ConsumptionLine lo tomado de un lote.
type ConsumptionLine struct {
	BatchID       string
	BatchNumber   string
	QuantityTaken decimal.Decimal
	UnitCost      decimal.Decimal
	TotalCost     decimal.Decimal
	MovementID    string
}

// ConsumptionResult resultado de un consumo. Shortfall > 0 indica que el stock no alcanzó; lo consumido
// queda registrado y el llamador decide si acepta el parcial.
type ConsumptionResult struct {
	ProductID     string
	Requested     decimal.Decimal
	QuantityTaken decimal.Decimal
	TotalCost     decimal.Decimal
	Shortfall     decimal.Decimal
	Lines         []ConsumptionLine
}

// ActualUnitCost costo promedio de lo consumido (0 si no se consumió nada).
func (r *ConsumptionResult) ActualUnitCost() decimal.Decimal {
	if !r.QuantityTaken.IsPositive() {
		return decimal.Zero
	}
	return r.TotalCost.Div(r.QuantityTaken)
}

// ConsumptionEngine descuenta stock de los lotes más antiguos primero.
type ConsumptionEngine struct {
	store  *BatchStore
	ledger *MovementLedger
	locker ProductLocker
}

// NewConsumptionEngine construye el motor. locker puede ser nil.
func NewConsumptionEngine(store *BatchStore, ledger *MovementLedger, locker ProductLocker) *ConsumptionEngine {
	if locker == nil {
		locker = NoopLocker()
	}
	return &ConsumptionEngine{store: store, ledger: ledger, locker: locker}
}

// Consume descuenta quantity en orden FIFO. Cada lote se descuenta en su propia transacción
// (descuento + movimiento de salida), así que un error a mitad de camino deja confirmadas las
// líneas anteriores: se devuelven junto con el error.
// Si el stock no alcanza no hay error: el resultado trae Shortfall > 0.
func (e *ConsumptionEngine) Consume(ctx context.Context, in ConsumeInput) (*ConsumptionResult, error) {
	if in.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !domaininv.ValidQuantity(in.Quantity) {
		return nil, domain.ErrInvalidQuantity
	}
	if in.SourceType == "" {
		in.SourceType = entity.SourceTypeConsumption
	}
	if !entity.ValidOutboundSource(in.SourceType) {
		return nil, domain.ErrInvalidInput
	}

	release, err := e.locker.Lock(ctx, in.ProductID)
	if err != nil {
		return nil, fmt.Errorf("lock product: %w", err)
	}
	defer release()

	res := &ConsumptionResult{
		ProductID:     in.ProductID,
		Requested:     in.Quantity,
		QuantityTaken: decimal.Zero,
		TotalCost:     decimal.Zero,
		Shortfall:     in.Quantity,
	}
	batches, err := e.store.ListAvailableBatchesFIFO(ctx, in.ProductID)
	if err != nil {
		return nil, fmt.Errorf("list fifo batches: %w", err)
	}

	defer e.store.invalidator.Invalidate(ctx, in.ProductID)
	for _, b := range batches {
		if !res.Shortfall.IsPositive() {
			break
		}
		take := decimal.Min(b.RemainingQuantity, res.Shortfall)
		if !take.IsPositive() {
			continue
		}
		line, err := e.consumeBatch(ctx, b, take, in)
		if err != nil {
			log.Warn().Err(err).
				Str("product_id", in.ProductID).
				Str("batch_id", b.ID).
				Str("taken", res.QuantityTaken.String()).
				Msg("consumo interrumpido; se conservan las líneas confirmadas")
			return res, err
		}
		res.Lines = append(res.Lines, *line)
		res.QuantityTaken = res.QuantityTaken.Add(line.QuantityTaken)
		res.TotalCost = res.TotalCost.Add(line.TotalCost)
		res.Shortfall = res.Shortfall.Sub(line.QuantityTaken)
	}
	return res, nil
}

// consumeBatch descuenta take del lote y registra la salida de forma atómica.
func (e *ConsumptionEngine) consumeBatch(ctx context.Context, b *entity.InventoryBatch, take decimal.Decimal, in ConsumeInput) (*ConsumptionLine, error) {
	var line *ConsumptionLine
	err := e.store.txRunner.Run(ctx, func(ctx context.Context, batchRepo repository.BatchRepository, movRepo repository.InventoryMovementRepository) error {
		updated, err := e.store.deplete(ctx, batchRepo, b.ID, take)
		if err != nil {
			return err
		}
		mov, err := e.ledger.recordOutbound(ctx, movRepo, updated, take, in.SourceType, in.SourceReference, in.Notes, in.UserID)
		if err != nil {
			return err
		}
		line = &ConsumptionLine{
			BatchID:       updated.ID,
			BatchNumber:   updated.BatchNumber,
			QuantityTaken: take,
			UnitCost:      updated.UnitCost,
			TotalCost:     take.Mul(updated.UnitCost),
			MovementID:    mov.ID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}
