package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Inventario-mrp/internal/domain"
	"github.com/jhoicas/Inventario-mrp/internal/domain/entity"
	"github.com/jhoicas/Inventario-mrp/internal/domain/repository"
)

// ProductRepository catálogo en memoria.
type ProductRepository struct {
	s *Store
}

// NewProductRepository construye el repositorio.
func NewProductRepository(s *Store) *ProductRepository {
	return &ProductRepository{s: s}
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

// Create inserta el producto. El SKU es único.
func (r *ProductRepository) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.products {
		if existing.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	c := *p
	c.BOM = nil
	r.s.products[p.ID] = &c
	return nil
}

// GetByID devuelve el producto (sin BOM) o nil.
func (r *ProductRepository) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

// GetBySKU busca por SKU.
func (r *ProductRepository) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.products {
		if p.SKU == sku {
			c := *p
			return &c, nil
		}
	}
	return nil, nil
}

// Update reemplaza los datos del producto.
func (r *ProductRepository) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *p
	c.BOM = nil
	r.s.products[p.ID] = &c
	return nil
}

// List productos ordenados por SKU, opcionalmente filtrados por tipo.
func (r *ProductRepository) List(_ context.Context, kind string, limit, offset int) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	all := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		if kind != "" && p.Kind != kind {
			continue
		}
		c := *p
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].SKU < all[j].SKU })
	if offset >= len(all) {
		return []*entity.Product{}, nil
	}
	all = all[offset:]
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// GetBOM líneas de la BOM ordenadas por Position.
func (r *ProductRepository) GetBOM(_ context.Context, finishedProductID string) ([]entity.BOMLine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	lines := append([]entity.BOMLine(nil), r.s.bom[finishedProductID]...)
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].Position < lines[j].Position })
	return lines, nil
}

// ReplaceBOM reemplaza la BOM completa.
func (r *ProductRepository) ReplaceBOM(_ context.Context, finishedProductID string, lines []entity.BOMLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[finishedProductID]; !ok {
		return domain.ErrNotFound
	}
	r.s.bom[finishedProductID] = append([]entity.BOMLine(nil), lines...)
	return nil
}
