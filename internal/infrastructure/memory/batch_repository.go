package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-mrp/internal/domain"
	"github.com/jhoicas/Inventario-mrp/internal/domain/entity"
	"github.com/jhoicas/Inventario-mrp/internal/domain/repository"
)

// BatchRepository lotes en memoria. Con tx != nil opera dentro de una transacción de TxRunner.
type BatchRepository struct {
	s  *Store
	tx *journal
}

// NewBatchRepository repositorio de lectura fuera de transacción.
func NewBatchRepository(s *Store) *BatchRepository {
	return &BatchRepository{s: s}
}

var _ repository.BatchRepository = (*BatchRepository)(nil)

// Create inserta el lote y asigna Sequence.
func (r *BatchRepository) Create(_ context.Context, b *entity.InventoryBatch) error {
	defer r.s.writeLock(r.tx)()
	for _, existing := range r.s.batches {
		if existing.ProductID == b.ProductID && existing.BatchNumber == b.BatchNumber {
			return domain.ErrDuplicateBatchNumber
		}
	}
	if _, ok := r.s.batches[b.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.batchSeq++
	b.Sequence = r.s.batchSeq
	stored := *b
	r.s.batches[b.ID] = &stored
	r.s.order = append(r.s.order, b.ID)
	r.tx.record(func() {
		delete(r.s.batches, stored.ID)
		r.s.order = r.s.order[:len(r.s.order)-1]
	})
	return nil
}

// GetByID devuelve una copia del lote o nil si no existe.
func (r *BatchRepository) GetByID(_ context.Context, id string) (*entity.InventoryBatch, error) {
	defer r.s.readLock(r.tx)()
	return cloneBatch(r.s.batches[id]), nil
}

// GetForUpdate en memoria equivale a GetByID (la transacción ya es exclusiva).
func (r *BatchRepository) GetForUpdate(ctx context.Context, id string) (*entity.InventoryBatch, error) {
	return r.GetByID(ctx, id)
}

// GetByNumber busca por (producto, número de lote).
func (r *BatchRepository) GetByNumber(_ context.Context, productID, batchNumber string) (*entity.InventoryBatch, error) {
	defer r.s.readLock(r.tx)()
	for _, b := range r.s.batches {
		if b.ProductID == productID && b.BatchNumber == batchNumber {
			return cloneBatch(b), nil
		}
	}
	return nil, nil
}

// SumRemaining suma remaining de los lotes del producto.
func (r *BatchRepository) SumRemaining(_ context.Context, productID string) (decimal.Decimal, error) {
	defer r.s.readLock(r.tx)()
	total := decimal.Zero
	for _, b := range r.s.batches {
		if b.ProductID == productID && b.RemainingQuantity.IsPositive() {
			total = total.Add(b.RemainingQuantity)
		}
	}
	return total, nil
}

// SumRemainingByProducts suma remaining para varios productos; los que no tienen lotes quedan en 0.
func (r *BatchRepository) SumRemainingByProducts(_ context.Context, productIDs []string) (map[string]decimal.Decimal, error) {
	defer r.s.readLock(r.tx)()
	out := make(map[string]decimal.Decimal, len(productIDs))
	for _, id := range productIDs {
		out[id] = decimal.Zero
	}
	for _, b := range r.s.batches {
		if total, ok := out[b.ProductID]; ok && b.RemainingQuantity.IsPositive() {
			out[b.ProductID] = total.Add(b.RemainingQuantity)
		}
	}
	return out, nil
}

// ListAvailableFIFO lotes con remaining > 0 ordenados por fecha de entrada y Sequence.
func (r *BatchRepository) ListAvailableFIFO(_ context.Context, productID string, _ bool) ([]*entity.InventoryBatch, error) {
	defer r.s.readLock(r.tx)()
	var out []*entity.InventoryBatch
	for _, id := range r.s.order {
		b := r.s.batches[id]
		if b.ProductID == productID && b.RemainingQuantity.IsPositive() {
			out = append(out, cloneBatch(b))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].FIFOBefore(out[j]) })
	return out, nil
}

// List lotes en orden de inserción según el filtro.
func (r *BatchRepository) List(_ context.Context, f repository.BatchFilter) ([]*entity.InventoryBatch, error) {
	defer r.s.readLock(r.tx)()
	var out []*entity.InventoryBatch
	for _, id := range r.s.order {
		b := r.s.batches[id]
		if f.ProductID != "" && b.ProductID != f.ProductID {
			continue
		}
		if f.OnlyAvailable && !b.RemainingQuantity.IsPositive() {
			continue
		}
		if b.Sequence <= f.AfterSequence {
			continue
		}
		out = append(out, cloneBatch(b))
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

// Deplete descuenta si remaining >= quantity.
func (r *BatchRepository) Deplete(_ context.Context, batchID string, quantity decimal.Decimal) (*entity.InventoryBatch, error) {
	defer r.s.writeLock(r.tx)()
	b, ok := r.s.batches[batchID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !quantity.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}
	if b.RemainingQuantity.LessThan(quantity) {
		return nil, domain.ErrInsufficientBatchQuantity
	}
	prevRemaining, prevUpdated := b.RemainingQuantity, b.UpdatedAt
	b.RemainingQuantity = b.RemainingQuantity.Sub(quantity)
	b.UpdatedAt = time.Now().UTC()
	r.tx.record(func() {
		b.RemainingQuantity = prevRemaining
		b.UpdatedAt = prevUpdated
	})
	return cloneBatch(b), nil
}

func cloneBatch(b *entity.InventoryBatch) *entity.InventoryBatch {
	if b == nil {
		return nil
	}
	c := *b
	return &c
}
