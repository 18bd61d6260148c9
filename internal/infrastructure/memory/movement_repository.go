package memory

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-mrp/internal/domain"
	"github.com/jhoicas/Inventario-mrp/internal/domain/entity"
	"github.com/jhoicas/Inventario-mrp/internal/domain/repository"
)

// MovementRepository ledger en memoria (solo inserción).
type MovementRepository struct {
	s  *Store
	tx *journal
}

// NewMovementRepository repositorio de lectura fuera de transacción.
func NewMovementRepository(s *Store) *MovementRepository {
	return &MovementRepository{s: s}
}

var _ repository.InventoryMovementRepository = (*MovementRepository)(nil)

// Create agrega el movimiento al final del ledger y asigna Sequence.
func (r *MovementRepository) Create(_ context.Context, m *entity.InventoryMovement) error {
	defer r.s.writeLock(r.tx)()
	if _, ok := r.s.batches[m.BatchID]; !ok {
		return domain.ErrNotFound
	}
	r.s.movSeq++
	m.Sequence = r.s.movSeq
	stored := *m
	r.s.movements = append(r.s.movements, &stored)
	r.tx.record(func() {
		r.s.movements = r.s.movements[:len(r.s.movements)-1]
		r.s.movSeq--
	})
	return nil
}

// GetByID devuelve el movimiento o nil.
func (r *MovementRepository) GetByID(_ context.Context, id string) (*entity.InventoryMovement, error) {
	defer r.s.readLock(r.tx)()
	for _, m := range r.s.movements {
		if m.ID == id {
			c := *m
			return &c, nil
		}
	}
	return nil, nil
}

// ListByBatch movimientos del lote en orden de registro.
func (r *MovementRepository) ListByBatch(_ context.Context, batchID string) ([]*entity.InventoryMovement, error) {
	defer r.s.readLock(r.tx)()
	out := make([]*entity.InventoryMovement, 0)
	for _, m := range r.s.movements {
		if m.BatchID == batchID {
			c := *m
			out = append(out, &c)
		}
	}
	return out, nil
}

// ListByProduct movimientos del producto, más recientes primero.
func (r *MovementRepository) ListByProduct(_ context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	defer r.s.readLock(r.tx)()
	out := make([]*entity.InventoryMovement, 0)
	skipped := 0
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if m.ProductID != productID {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		c := *m
		out = append(out, &c)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
