package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Inventario-mrp/internal/application/dto"
	"github.com/jhoicas/Inventario-mrp/internal/domain"
	"github.com/jhoicas/Inventario-mrp/internal/domain/entity"
	domaininv "github.com/jhoicas/Inventario-mrp/internal/domain/inventory"
	"github.com/jhoicas/Inventario-mrp/internal/domain/repository"
)

// ProductUseCase catálogo de productos y su BOM. La cantidad y el costo viven en los lotes.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto. El SKU es único.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	if in.SKU == "" || strings.TrimSpace(in.Name) == "" || !entity.ValidKind(in.Kind) {
		return nil, domain.ErrInvalidInput
	}
	if in.ReferencePrice != nil && in.ReferencePrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetBySKU(ctx, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.UnitMeasure == "" {
		in.UnitMeasure = "UND"
	}
	now := time.Now()
	product := &entity.Product{
		ID:             uuid.New().String(),
		SKU:            in.SKU,
		Name:           strings.TrimSpace(in.Name),
		Kind:           in.Kind,
		ReferencePrice: in.ReferencePrice,
		UnitMeasure:    in.UnitMeasure,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID con su BOM.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if product.IsFinishedProduct() {
		bom, err := uc.repo.GetBOM(ctx, id)
		if err != nil {
			return nil, err
		}
		product.BOM = bom
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. El tipo no se modifica (la BOM depende de él).
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.ReferencePrice != nil {
		if in.ReferencePrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.ReferencePrice = in.ReferencePrice
	}
	if in.UnitMeasure != nil {
		product.UnitMeasure = *in.UnitMeasure
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos (opcionalmente por tipo) con paginación.
func (uc *ProductUseCase) List(ctx context.Context, kind string, limit, offset int) (*dto.ProductListResponse, error) {
	if kind != "" && !entity.ValidKind(kind) {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.repo.List(ctx, kind, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// ReplaceBOM reemplaza la BOM de un producto terminado. Cada componente debe ser materia prima,
// aparecer una sola vez y tener cantidad por unidad positiva.
func (uc *ProductUseCase) ReplaceBOM(ctx context.Context, finishedID string, in dto.ReplaceBOMRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, finishedID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if !product.IsFinishedProduct() {
		return nil, domain.ErrInvalidInput
	}
	lines := make([]entity.BOMLine, 0, len(in.Lines))
	seen := make(map[string]struct{}, len(in.Lines))
	for i, l := range in.Lines {
		if !domaininv.ValidQuantity(l.QuantityPerUnit) {
			return nil, domain.ErrInvalidQuantity
		}
		if _, dup := seen[l.ComponentProductID]; dup {
			return nil, domain.ErrDuplicate
		}
		seen[l.ComponentProductID] = struct{}{}
		comp, err := uc.repo.GetByID(ctx, l.ComponentProductID)
		if err != nil {
			return nil, err
		}
		if comp == nil {
			return nil, domain.ErrNotFound
		}
		if !comp.IsRawMaterial() {
			return nil, domain.ErrInvalidInput
		}
		lines = append(lines, entity.BOMLine{
			FinishedProductID:  finishedID,
			ComponentProductID: l.ComponentProductID,
			QuantityPerUnit:    l.QuantityPerUnit,
			Position:           i + 1,
		})
	}
	if err := uc.repo.ReplaceBOM(ctx, finishedID, lines); err != nil {
		return nil, err
	}
	product.BOM = lines
	return toProductResponse(product), nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	out := &dto.ProductResponse{
		ID:             p.ID,
		SKU:            p.SKU,
		Name:           p.Name,
		Kind:           p.Kind,
		ReferencePrice: p.ReferencePrice,
		UnitMeasure:    p.UnitMeasure,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	for _, l := range p.BOM {
		out.BOM = append(out.BOM, dto.BOMLineResponse{
			ComponentProductID: l.ComponentProductID,
			QuantityPerUnit:    l.QuantityPerUnit,
			Position:           l.Position,
		})
	}
	return out
}
