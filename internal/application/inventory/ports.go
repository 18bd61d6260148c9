package inventory

import (
	"context"

	"github.com/jhoicas/Inventario-mrp/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y ningún cambio queda visible.
// fn recibe el contexto de la transacción (con su timeout) y debe usarlo en todas las consultas.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		txCtx context.Context,
		batchRepo repository.BatchRepository,
		movRepo repository.InventoryMovementRepository,
	) error) error
}

// AvailabilityInvalidator descarta la disponibilidad cacheada de los productos después de un cambio.
// Es best-effort: las fallas se registran pero no afectan la operación ya confirmada.
type AvailabilityInvalidator interface {
	Invalidate(ctx context.Context, productIDs ...string)
}

// ProductLocker serializa operaciones de salida por producto (opcional, p.ej. lock distribuido en Redis).
type ProductLocker interface {
	Lock(ctx context.Context, productID string) (release func(), err error)
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context, ...string) {}

type noopLocker struct{}

func (noopLocker) Lock(context.Context, string) (func(), error) { return func() {}, nil }

// NoopInvalidator implementación vacía (sin caché).
func NoopInvalidator() AvailabilityInvalidator { return noopInvalidator{} }

// NoopLocker implementación vacía (sin lock distribuido; la concurrencia la resuelve el descuento condicional).
func NoopLocker() ProductLocker { return noopLocker{} }
