package repository

import (
	"context"

	"github.com/jhoicas/Inventario-mrp/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// BatchFilter filtros para listar lotes.
type BatchFilter struct {
	ProductID     string // vacío = todos los productos
	OnlyAvailable bool   // solo remaining > 0
	AfterSequence int64  // paginación por cursor (Sequence > AfterSequence)
	Limit         int    // 0 = sin límite
}

// BatchRepository define el puerto de persistencia para lotes de inventario.
// Las implementaciones atadas a una transacción (ver TxRunner) son las únicas que pueden mutar lotes.
type BatchRepository interface {
	// Create persiste el lote y asigna Sequence. Devuelve domain.ErrDuplicateBatchNumber si
	// (ProductID, BatchNumber) ya existe.
	Create(ctx context.Context, batch *entity.InventoryBatch) error
	GetByID(ctx context.Context, id string) (*entity.InventoryBatch, error)
	// GetForUpdate obtiene el lote bloqueando la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.InventoryBatch, error)
	GetByNumber(ctx context.Context, productID, batchNumber string) (*entity.InventoryBatch, error)

	// SumRemaining suma remaining de los lotes no agotados del producto.
	SumRemaining(ctx context.Context, productID string) (decimal.Decimal, error)
	// SumRemainingByProducts igual que SumRemaining para varios productos en una sola lectura.
	SumRemainingByProducts(ctx context.Context, productIDs []string) (map[string]decimal.Decimal, error)

	// ListAvailableFIFO lotes con remaining > 0 ordenados por InboundDate y Sequence.
	// Con forUpdate bloquea las filas (solo dentro de una transacción).
	ListAvailableFIFO(ctx context.Context, productID string, forUpdate bool) ([]*entity.InventoryBatch, error)
	List(ctx context.Context, filter BatchFilter) ([]*entity.InventoryBatch, error)

	// Deplete descuenta quantity de forma condicional (remaining >= quantity) y devuelve el lote
	// actualizado. Si la condición no se cumple devuelve domain.ErrInsufficientBatchQuantity.
	Deplete(ctx context.Context, batchID string, quantity decimal.Decimal) (*entity.InventoryBatch, error)
}
