package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-mrp/internal/domain/entity"
)

// InventoryMovementRepository define el puerto de persistencia del ledger (solo inserción y lectura).
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	GetByID(ctx context.Context, id string) (*entity.InventoryMovement, error)
	// ListByBatch devuelve los movimientos del lote en orden de registro.
	ListByBatch(ctx context.Context, batchID string) ([]*entity.InventoryMovement, error)
	// ListByProduct devuelve los movimientos del producto, más recientes primero.
	ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error)
}
