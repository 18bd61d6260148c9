package repository

import (
	"context"

	"github.com/jhoicas/Inventario-mrp/internal/domain/entity"
)

// ProductRepository define el puerto del catálogo (productos y BOM).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, kind string, limit, offset int) ([]*entity.Product, error)

	// GetBOM devuelve las líneas de la BOM del producto terminado ordenadas por Position.
	GetBOM(ctx context.Context, finishedProductID string) ([]entity.BOMLine, error)
	// ReplaceBOM reemplaza todas las líneas de la BOM en una sola operación.
	ReplaceBOM(ctx context.Context, finishedProductID string, lines []entity.BOMLine) error
}
