package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-mrp/internal/domain"
	"github.com/jhoicas/Inventario-mrp/internal/domain/entity"
	"github.com/jhoicas/Inventario-mrp/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo implementación de BatchRepository sobre PostgreSQL (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

const batchColumns = `id, product_id, batch_number, inbound_quantity, remaining_quantity, unit_cost,
	source_type, source_reference, inbound_date, location, seq, created_at, updated_at`

// uniqueBatchNumber constraint de unicidad (product_id, batch_number).
const uniqueBatchNumber = "uq_inventory_batches_product_number"

type scanner interface {
	Scan(dest ...any) error
}

func scanBatch(s scanner) (*entity.InventoryBatch, error) {
	var b entity.InventoryBatch
	err := s.Scan(
		&b.ID, &b.ProductID, &b.BatchNumber, &b.InboundQuantity, &b.RemainingQuantity, &b.UnitCost,
		&b.SourceType, &b.SourceReference, &b.InboundDate, &b.Location, &b.Sequence, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserta el lote; seq lo asigna la secuencia de la tabla.
func (r *BatchRepo) Create(ctx context.Context, b *entity.InventoryBatch) error {
	query := `
		INSERT INTO inventory_batches (id, product_id, batch_number, inbound_quantity, remaining_quantity, unit_cost,
			source_type, source_reference, inbound_date, location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		b.ID, b.ProductID, b.BatchNumber, b.InboundQuantity, b.RemainingQuantity, b.UnitCost,
		b.SourceType, b.SourceReference, b.InboundDate, b.Location, b.CreatedAt, b.UpdatedAt,
	).Scan(&b.Sequence)
	if err != nil {
		if isUniqueViolation(err) {
			if constraintName(err) == uniqueBatchNumber {
				return domain.ErrDuplicateBatchNumber
			}
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID (nil si no existe).
func (r *BatchRepo) GetByID(ctx context.Context, id string) (*entity.InventoryBatch, error) {
	return r.getOne(ctx, `SELECT `+batchColumns+` FROM inventory_batches WHERE id = $1`, id)
}

// GetForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE).
func (r *BatchRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryBatch, error) {
	return r.getOne(ctx, `SELECT `+batchColumns+` FROM inventory_batches WHERE id = $1 FOR UPDATE`, id)
}

// GetByNumber busca por (producto, número de lote).
func (r *BatchRepo) GetByNumber(ctx context.Context, productID, batchNumber string) (*entity.InventoryBatch, error) {
	return r.getOne(ctx, `SELECT `+batchColumns+` FROM inventory_batches WHERE product_id = $1 AND batch_number = $2`,
		productID, batchNumber)
}

func (r *BatchRepo) getOne(ctx context.Context, query string, args ...any) (*entity.InventoryBatch, error) {
	b, err := scanBatch(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// SumRemaining suma remaining de los lotes no agotados del producto.
func (r *BatchRepo) SumRemaining(ctx context.Context, productID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(remaining_quantity), 0)
		FROM inventory_batches WHERE product_id = $1 AND remaining_quantity > 0`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, productID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum remaining: %w", err)
	}
	return total, nil
}

// SumRemainingByProducts suma remaining por producto en una sola consulta.
func (r *BatchRepo) SumRemainingByProducts(ctx context.Context, productIDs []string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(productIDs))
	for _, id := range productIDs {
		out[id] = decimal.Zero
	}
	if len(productIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT product_id, SUM(remaining_quantity)
		FROM inventory_batches
		WHERE product_id = ANY($1) AND remaining_quantity > 0
		GROUP BY product_id`
	rows, err := r.q.Query(ctx, query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("sum remaining by products: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var total decimal.Decimal
		if err := rows.Scan(&id, &total); err != nil {
			return nil, fmt.Errorf("scan remaining: %w", err)
		}
		out[id] = total
	}
	return out, rows.Err()
}

// ListAvailableFIFO lotes con remaining > 0 en orden FIFO. Con forUpdate bloquea las filas.
func (r *BatchRepo) ListAvailableFIFO(ctx context.Context, productID string, forUpdate bool) ([]*entity.InventoryBatch, error) {
	query := `SELECT ` + batchColumns + `
		FROM inventory_batches
		WHERE product_id = $1 AND remaining_quantity > 0
		ORDER BY inbound_date ASC, seq ASC`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	return r.list(ctx, query, productID)
}

// List lotes en orden de inserción según el filtro.
func (r *BatchRepo) List(ctx context.Context, f repository.BatchFilter) ([]*entity.InventoryBatch, error) {
	var (
		where []string
		args  []any
	)
	if f.ProductID != "" {
		args = append(args, f.ProductID)
		where = append(where, fmt.Sprintf("product_id = $%d", len(args)))
	}
	if f.OnlyAvailable {
		where = append(where, "remaining_quantity > 0")
	}
	if f.AfterSequence > 0 {
		args = append(args, f.AfterSequence)
		where = append(where, fmt.Sprintf("seq > $%d", len(args)))
	}
	query := `SELECT ` + batchColumns + ` FROM inventory_batches`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY seq ASC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	return r.list(ctx, query, args...)
}

func (r *BatchRepo) list(ctx context.Context, query string, args ...any) ([]*entity.InventoryBatch, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	var out []*entity.InventoryBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Deplete descuenta con un UPDATE condicional; si ninguna fila cumple remaining >= quantity
// devuelve ErrInsufficientBatchQuantity (o ErrNotFound si el lote no existe).
func (r *BatchRepo) Deplete(ctx context.Context, batchID string, quantity decimal.Decimal) (*entity.InventoryBatch, error) {
	if !quantity.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}
	query := `
		UPDATE inventory_batches
		SET remaining_quantity = remaining_quantity - $2, updated_at = now()
		WHERE id = $1 AND remaining_quantity >= $2
		RETURNING ` + batchColumns
	b, err := scanBatch(r.q.QueryRow(ctx, query, batchID, quantity))
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("deplete batch: %w", err)
	}
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM inventory_batches WHERE id = $1)`, batchID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check batch: %w", err)
	}
	if !exists {
		return nil, domain.ErrNotFound
	}
	return nil, domain.ErrInsufficientBatchQuantity
}
