// Package memory implementa los puertos de persistencia en memoria (STORAGE_DRIVER=memory y tests).
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/jhoicas/Inventario-mrp/internal/application/inventory"
	"github.com/jhoicas/Inventario-mrp/internal/domain"
	"github.com/jhoicas/Inventario-mrp/internal/domain/entity"
	"github.com/jhoicas/Inventario-mrp/internal/domain/repository"
)

// Store estado compartido por los repositorios en memoria. Una transacción toma el lock de
// escritura completo, así que las transacciones se serializan.
type Store struct {
	mu        sync.RWMutex
	products  map[string]*entity.Product
	bom       map[string][]entity.BOMLine
	batches   map[string]*entity.InventoryBatch
	order     []string // ids de lotes en orden de inserción
	movements []*entity.InventoryMovement
	batchSeq  int64
	movSeq    int64
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		products: make(map[string]*entity.Product),
		bom:      make(map[string][]entity.BOMLine),
		batches:  make(map[string]*entity.InventoryBatch),
	}
}

// journal deshace los cambios de una transacción fallida.
type journal struct {
	undo []func()
}

func (j *journal) record(fn func()) {
	if j != nil {
		j.undo = append(j.undo, fn)
	}
}

func (j *journal) rollback() {
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
	j.undo = nil
}

// TxRunner ejecuta fn con repositorios atados a una transacción en memoria.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

var _ inventory.TxRunner = (*TxRunner)(nil)

// Run toma el lock de escritura, ejecuta fn y deshace todo si devuelve error.
func (t *TxRunner) Run(ctx context.Context, fn func(
	txCtx context.Context,
	batchRepo repository.BatchRepository,
	movRepo repository.InventoryMovementRepository,
) error) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	j := &journal{}
	err := fn(
		ctx,
		&BatchRepository{s: t.s, tx: j},
		&MovementRepository{s: t.s, tx: j},
	)
	if err == nil {
		err = ctxErr(ctx)
	}
	if err != nil {
		j.rollback()
		return err
	}
	return nil
}

func ctxErr(ctx context.Context) error {
	switch err := ctx.Err(); {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return domain.ErrStorageTimeout
	default:
		return err
	}
}

// locking: dentro de una transacción el lock ya lo tiene el TxRunner.
func (s *Store) readLock(tx *journal) func() {
	if tx != nil {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *Store) writeLock(tx *journal) func() {
	if tx != nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}
