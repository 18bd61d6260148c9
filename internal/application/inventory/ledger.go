package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-mrp/internal/domain"
	"github.com/jhoicas/Inventario-mrp/internal/domain/entity"
	"github.com/jhoicas/Inventario-mrp/internal/domain/repository"
)

// MovementLedger registro de solo inserción de todos los cambios de cantidad de los lotes.
// Las escrituras se hacen siempre con el repositorio de la transacción que modifica el lote.
type MovementLedger struct {
	batchRepo repository.BatchRepository
	movRepo   repository.InventoryMovementRepository
	txRunner  TxRunner
}

// NewMovementLedger construye el ledger con repositorios de lectura (fuera de transacción).
func NewMovementLedger(batchRepo repository.BatchRepository, movRepo repository.InventoryMovementRepository) *MovementLedger {
	return &MovementLedger{batchRepo: batchRepo, movRepo: movRepo}
}

// WithTxRunner hace que VerifyBatch lea el lote y su historial en una transacción con la fila del
// lote bloqueada, de modo que un descuento concurrente no quede a medias en la conciliación.
func (l *MovementLedger) WithTxRunner(txRunner TxRunner) *MovementLedger {
	l.txRunner = txRunner
	return l
}

// recordInbound registra la entrada de un lote recién creado.
func (l *MovementLedger) recordInbound(ctx context.Context, movRepo repository.InventoryMovementRepository, batch *entity.InventoryBatch, notes, userID string) (*entity.InventoryMovement, error) {
	mov := &entity.InventoryMovement{
		ID:                         uuid.New().String(),
		BatchID:                    batch.ID,
		ProductID:                  batch.ProductID,
		Type:                       entity.MovementTypeIN,
		Quantity:                   batch.InboundQuantity,
		UnitCost:                   batch.UnitCost,
		TotalCost:                  batch.InboundQuantity.Mul(batch.UnitCost),
		SourceType:                 batch.SourceType,
		SourceReference:            batch.SourceReference,
		ResultingRemainingQuantity: batch.RemainingQuantity,
		Notes:                      notes,
		CreatedAt:                  time.Now().UTC(),
		CreatedBy:                  userID,
	}
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, fmt.Errorf("record inbound movement: %w", err)
	}
	return mov, nil
}

// recordOutbound registra una salida; batch es el lote ya actualizado por el descuento.
func (l *MovementLedger) recordOutbound(
	ctx context.Context,
	movRepo repository.InventoryMovementRepository,
	batch *entity.InventoryBatch,
	quantity decimal.Decimal,
	sourceType, sourceReference, notes, userID string,
) (*entity.InventoryMovement, error) {
	if !quantity.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}
	if !entity.ValidOutboundSource(sourceType) {
		return nil, domain.ErrInvalidInput
	}
	mov := &entity.InventoryMovement{
		ID:                         uuid.New().String(),
		BatchID:                    batch.ID,
		ProductID:                  batch.ProductID,
		Type:                       entity.MovementTypeOUT,
		Quantity:                   quantity.Neg(),
		UnitCost:                   batch.UnitCost,
		TotalCost:                  quantity.Neg().Mul(batch.UnitCost),
		SourceType:                 sourceType,
		SourceReference:            sourceReference,
		ResultingRemainingQuantity: batch.RemainingQuantity,
		Notes:                      notes,
		CreatedAt:                  time.Now().UTC(),
		CreatedBy:                  userID,
	}
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, fmt.Errorf("record outbound movement: %w", err)
	}
	return mov, nil
}

// ListByBatch historial completo del lote en orden de registro.
func (l *MovementLedger) ListByBatch(ctx context.Context, batchID string) ([]*entity.InventoryMovement, error) {
	if batchID == "" {
		return nil, domain.ErrInvalidInput
	}
	batch, err := l.batchRepo.GetByID(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("get batch: %w", err)
	}
	if batch == nil {
		return nil, domain.ErrNotFound
	}
	return l.movRepo.ListByBatch(ctx, batchID)
}

// ListByProduct movimientos del producto (más recientes primero) con filtro opcional de fechas.
func (l *MovementLedger) ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return l.movRepo.ListByProduct(ctx, productID, from, to, limit, offset)
}

// BatchAudit resultado de conciliar un lote contra su historial de movimientos.
type BatchAudit struct {
	BatchID           string
	InboundQuantity   decimal.Decimal
	RemainingQuantity decimal.Decimal
	LedgerBalance     decimal.Decimal // suma de cantidades firmadas del ledger
	MovementCount     int
	Consistent        bool
	Problems          []string
}

// VerifyBatch concilia el lote con el ledger: una sola entrada igual a inboundQuantity, salidas
// negativas encadenadas por resultingRemainingQuantity y saldo final igual a remainingQuantity.
func (l *MovementLedger) VerifyBatch(ctx context.Context, batchID string) (*BatchAudit, error) {
	batch, movs, err := l.readBatchHistory(ctx, batchID)
	if err != nil {
		return nil, err
	}
	audit := &BatchAudit{
		BatchID:           batch.ID,
		InboundQuantity:   batch.InboundQuantity,
		RemainingQuantity: batch.RemainingQuantity,
		LedgerBalance:     decimal.Zero,
		MovementCount:     len(movs),
	}
	problem := func(format string, args ...any) {
		audit.Problems = append(audit.Problems, fmt.Sprintf(format, args...))
	}

	if batch.RemainingQuantity.IsNegative() || batch.RemainingQuantity.GreaterThan(batch.InboundQuantity) {
		problem("remaining %s fuera de rango [0, %s]", batch.RemainingQuantity, batch.InboundQuantity)
	}
	if len(movs) == 0 {
		problem("el lote no tiene movimiento de entrada")
	}

	running := decimal.Zero
	for i, m := range movs {
		switch {
		case i == 0:
			if m.Type != entity.MovementTypeIN {
				problem("el primer movimiento %s no es de entrada", m.ID)
			} else if !m.Quantity.Equal(batch.InboundQuantity) {
				problem("entrada %s con cantidad %s distinta a inbound %s", m.ID, m.Quantity, batch.InboundQuantity)
			}
		case m.Type == entity.MovementTypeIN:
			problem("entrada adicional %s", m.ID)
		case !m.Quantity.IsNegative():
			problem("salida %s con cantidad no negativa %s", m.ID, m.Quantity)
		}
		running = running.Add(m.Quantity)
		if !m.ResultingRemainingQuantity.Equal(running) {
			problem("movimiento %s: remaining resultante %s, esperado %s", m.ID, m.ResultingRemainingQuantity, running)
		}
	}
	audit.LedgerBalance = running
	if len(movs) > 0 && !running.Equal(batch.RemainingQuantity) {
		problem("saldo del ledger %s distinto al remaining del lote %s", running, batch.RemainingQuantity)
	}
	audit.Consistent = len(audit.Problems) == 0
	return audit, nil
}

// readBatchHistory lee el lote y sus movimientos; con txRunner ambos salen del mismo estado confirmado.
func (l *MovementLedger) readBatchHistory(ctx context.Context, batchID string) (*entity.InventoryBatch, []*entity.InventoryMovement, error) {
	read := func(ctx context.Context, batchRepo repository.BatchRepository, movRepo repository.InventoryMovementRepository, lock bool) (*entity.InventoryBatch, []*entity.InventoryMovement, error) {
		var (
			batch *entity.InventoryBatch
			err   error
		)
		if lock {
			batch, err = batchRepo.GetForUpdate(ctx, batchID)
		} else {
			batch, err = batchRepo.GetByID(ctx, batchID)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("get batch: %w", err)
		}
		if batch == nil {
			return nil, nil, domain.ErrNotFound
		}
		movs, err := movRepo.ListByBatch(ctx, batchID)
		if err != nil {
			return nil, nil, fmt.Errorf("list batch movements: %w", err)
		}
		return batch, movs, nil
	}
	if l.txRunner == nil {
		return read(ctx, l.batchRepo, l.movRepo, false)
	}

	var (
		batch *entity.InventoryBatch
		movs  []*entity.InventoryMovement
	)
	err := l.txRunner.Run(ctx, func(ctx context.Context, batchRepo repository.BatchRepository, movRepo repository.InventoryMovementRepository) error {
		var err error
		batch, movs, err = read(ctx, batchRepo, movRepo, true)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return batch, movs, nil
}

// LedgerReport resultado de conciliar todos los lotes.
type LedgerReport struct {
	Checked      int
	Inconsistent []*BatchAudit
}

// AuditAll recorre los lotes por cursor de secuencia y concilia cada uno. pageSize <= 0 usa 500.
func (l *MovementLedger) AuditAll(ctx context.Context, pageSize int) (*LedgerReport, error) {
	if pageSize <= 0 {
		pageSize = 500
	}
	report := &LedgerReport{}
	var after int64
	for {
		page, err := l.batchRepo.List(ctx, repository.BatchFilter{AfterSequence: after, Limit: pageSize})
		if err != nil {
			return report, fmt.Errorf("list batches: %w", err)
		}
		for _, b := range page {
			audit, err := l.VerifyBatch(ctx, b.ID)
			if err != nil {
				return report, fmt.Errorf("verify batch %s: %w", b.ID, err)
			}
			report.Checked++
			if !audit.Consistent {
				report.Inconsistent = append(report.Inconsistent, audit)
			}
			after = b.Sequence
		}
		if len(page) < pageSize {
			return report, nil
		}
	}
}
