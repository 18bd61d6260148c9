package inventory

import (
	"context"
	"errors"
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

// NewBatchInput datos para crear un lote. UnitCost ya es el costo aterrizado (ver AllocateUnitCost).
type NewBatchInput struct {
	ProductID       string
	BatchNumber     string
	InboundQuantity decimal.Decimal
	UnitCost        decimal.Decimal
	SourceType      string
	SourceReference string
	InboundDate     time.Time // cero = ahora
	Location        string
	Notes           string
	UserID          string
}

// BatchStore dueño de los lotes: crea lotes (con su movimiento de entrada) y responde disponibilidad.
type BatchStore struct {
	txRunner    TxRunner
	batchRepo   repository.BatchRepository
	ledger      *MovementLedger
	invalidator AvailabilityInvalidator
}

// NewBatchStore construye el store. invalidator puede ser nil.
func NewBatchStore(txRunner TxRunner, batchRepo repository.BatchRepository, ledger *MovementLedger, invalidator AvailabilityInvalidator) *BatchStore {
	if invalidator == nil {
		invalidator = NoopInvalidator()
	}
	return &BatchStore{
		txRunner:    txRunner,
		batchRepo:   batchRepo,
		ledger:      ledger,
		invalidator: invalidator,
	}
}

// CreateBatch crea el lote con remaining = inbound y registra su entrada en la misma transacción.
func (s *BatchStore) CreateBatch(ctx context.Context, in NewBatchInput) (*entity.InventoryBatch, error) {
	batches, err := s.createBatches(ctx, []NewBatchInput{in})
	if err != nil {
		return nil, err
	}
	return batches[0], nil
}

// createBatches crea varios lotes de forma atómica (todos o ninguno).
func (s *BatchStore) createBatches(ctx context.Context, inputs []NewBatchInput) ([]*entity.InventoryBatch, error) {
	if len(inputs) == 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	seen := make(map[string]struct{}, len(inputs))
	for i := range inputs {
		if err := validateNewBatch(&inputs[i], now); err != nil {
			return nil, err
		}
		key := inputs[i].ProductID + "|" + inputs[i].BatchNumber
		if _, dup := seen[key]; dup {
			return nil, domain.ErrDuplicateBatchNumber
		}
		seen[key] = struct{}{}
	}

	var created []*entity.InventoryBatch
	err := s.txRunner.Run(ctx, func(ctx context.Context, batchRepo repository.BatchRepository, movRepo repository.InventoryMovementRepository) error {
		created = created[:0]
		for _, in := range inputs {
			batch := &entity.InventoryBatch{
				ID:                uuid.New().String(),
				ProductID:         in.ProductID,
				BatchNumber:       in.BatchNumber,
				InboundQuantity:   in.InboundQuantity,
				RemainingQuantity: in.InboundQuantity,
				UnitCost:          in.UnitCost,
				SourceType:        in.SourceType,
				SourceReference:   in.SourceReference,
				InboundDate:       in.InboundDate,
				Location:          in.Location,
				CreatedAt:         now,
				UpdatedAt:         now,
			}
			if err := batchRepo.Create(ctx, batch); err != nil {
				if errors.Is(err, domain.ErrDuplicateBatchNumber) {
					return err
				}
				return fmt.Errorf("create batch: %w", err)
			}
			if _, err := s.ledger.recordInbound(ctx, movRepo, batch, in.Notes, in.UserID); err != nil {
				return err
			}
			created = append(created, batch)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidator.Invalidate(ctx, productIDsOf(inputs)...)
	return created, nil
}

func validateNewBatch(in *NewBatchInput, now time.Time) error {
	in.BatchNumber = strings.TrimSpace(in.BatchNumber)
	if in.ProductID == "" || in.BatchNumber == "" {
		return domain.ErrInvalidInput
	}
	if !domaininv.ValidQuantity(in.InboundQuantity) || in.UnitCost.IsNegative() {
		return domain.ErrInvalidQuantity
	}
	if !entity.ValidBatchSource(in.SourceType) {
		return domain.ErrInvalidInput
	}
	if in.InboundDate.IsZero() {
		in.InboundDate = now
	}
	return nil
}

func productIDsOf(inputs []NewBatchInput) []string {
	ids := make([]string, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))
	for _, in := range inputs {
		if _, ok := seen[in.ProductID]; ok {
			continue
		}
		seen[in.ProductID] = struct{}{}
		ids = append(ids, in.ProductID)
	}
	return ids
}

// GetRemaining cantidad disponible del producto (suma de remaining de lotes no agotados).
// Un producto sin lotes devuelve 0.
func (s *BatchStore) GetRemaining(ctx context.Context, productID string) (decimal.Decimal, error) {
	if productID == "" {
		return decimal.Zero, domain.ErrInvalidInput
	}
	qty, err := s.batchRepo.SumRemaining(ctx, productID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum remaining: %w", err)
	}
	return qty, nil
}

// ListAvailableBatchesFIFO lotes con remaining > 0 en orden FIFO (fecha de entrada, luego orden de creación).
func (s *BatchStore) ListAvailableBatchesFIFO(ctx context.Context, productID string) ([]*entity.InventoryBatch, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.batchRepo.ListAvailableFIFO(ctx, productID, false)
}

// GetBatch obtiene un lote por ID.
func (s *BatchStore) GetBatch(ctx context.Context, id string) (*entity.InventoryBatch, error) {
	b, err := s.batchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get batch: %w", err)
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

// batchNumberTaken indica si el producto ya tiene un lote con ese número.
func (s *BatchStore) batchNumberTaken(ctx context.Context, productID, number string) (bool, error) {
	b, err := s.batchRepo.GetByNumber(ctx, productID, number)
	if err != nil {
		return false, fmt.Errorf("get batch by number: %w", err)
	}
	return b != nil, nil
}

// ListBatches lista lotes con filtro (incluye agotados salvo OnlyAvailable).
func (s *BatchStore) ListBatches(ctx context.Context, filter repository.BatchFilter) ([]*entity.InventoryBatch, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	return s.batchRepo.List(ctx, filter)
}

// deplete descuenta del lote dentro de la transacción del llamador. Solo lo usan las operaciones de salida.
func (s *BatchStore) deplete(ctx context.Context, batchRepo repository.BatchRepository, batchID string, quantity decimal.Decimal) (*entity.InventoryBatch, error) {
	if !quantity.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}
	b, err := batchRepo.Deplete(ctx, batchID, quantity)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientBatchQuantity) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("deplete batch: %w", err)
	}
	return b, nil
}
