package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-mrp/internal/application/dto"
	"github.com/jhoicas/Inventario-mrp/internal/application/usecase"
	"github.com/jhoicas/Inventario-mrp/internal/domain"
	"github.com/jhoicas/Inventario-mrp/internal/domain/entity"
	"github.com/jhoicas/Inventario-mrp/internal/infrastructure/memory"
)

func newProductUC() *usecase.ProductUseCase {
	return usecase.NewProductUseCase(memory.NewProductRepository(memory.NewStore()))
}

func mustCreate(t *testing.T, uc *usecase.ProductUseCase, sku, kind string) *dto.ProductResponse {
	t.Helper()
	p, err := uc.Create(context.Background(), dto.CreateProductRequest{SKU: sku, Name: "Producto " + sku, Kind: kind})
	require.NoError(t, err)
	return p
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_ValoresPorDefectoYSKUUnico(t *testing.T) {
	uc := newProductUC()
	ctx := context.Background()

	p, err := uc.Create(ctx, dto.CreateProductRequest{SKU: "  MP-001 ", Name: " Harina ", Kind: entity.ProductKindRawMaterial})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "MP-001", p.SKU)
	assert.Equal(t, "Harina", p.Name)
	assert.Equal(t, "UND", p.UnitMeasure)

	_, err = uc.Create(ctx, dto.CreateProductRequest{SKU: "MP-001", Name: "Otra", Kind: entity.ProductKindRawMaterial})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreate_EntradaInvalida(t *testing.T) {
	uc := newProductUC()
	negative := decimal.NewFromInt(-1)
	cases := map[string]dto.CreateProductRequest{
		"sin sku":         {Name: "X", Kind: entity.ProductKindRawMaterial},
		"sin nombre":      {SKU: "X", Name: "  ", Kind: entity.ProductKindRawMaterial},
		"tipo inválido":   {SKU: "X", Name: "X", Kind: "SERVICE"},
		"precio negativo": {SKU: "X", Name: "X", Kind: entity.ProductKindRawMaterial, ReferencePrice: &negative},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestUpdate_NoCambiaTipo(t *testing.T) {
	uc := newProductUC()
	ctx := context.Background()
	p := mustCreate(t, uc, "MP-001", entity.ProductKindRawMaterial)

	name := "Harina integral"
	price := decimal.RequireFromString("2.5")
	out, err := uc.Update(ctx, p.ID, dto.UpdateProductRequest{Name: &name, ReferencePrice: &price})
	require.NoError(t, err)
	assert.Equal(t, name, out.Name)
	assert.Equal(t, entity.ProductKindRawMaterial, out.Kind)
	require.NotNil(t, out.ReferencePrice)
	assert.True(t, price.Equal(*out.ReferencePrice))

	blank := " "
	_, err = uc.Update(ctx, p.ID, dto.UpdateProductRequest{Name: &blank})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	missing, err := uc.Update(ctx, "no-existe", dto.UpdateProductRequest{Name: &name})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestList_FiltraPorTipo(t *testing.T) {
	uc := newProductUC()
	ctx := context.Background()
	mustCreate(t, uc, "MP-001", entity.ProductKindRawMaterial)
	mustCreate(t, uc, "MP-002", entity.ProductKindRawMaterial)
	mustCreate(t, uc, "PT-001", entity.ProductKindFinishedProduct)

	raw, err := uc.List(ctx, entity.ProductKindRawMaterial, 20, 0)
	require.NoError(t, err)
	assert.Len(t, raw.Items, 2)

	all, err := uc.List(ctx, "", 20, 0)
	require.NoError(t, err)
	assert.Len(t, all.Items, 3)

	_, err = uc.List(ctx, "OTRO", 20, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lista de materiales
// ──────────────────────────────────────────────────────────────────────────────

func TestReplaceBOM_ReemplazaYSeLeeConElProducto(t *testing.T) {
	uc := newProductUC()
	ctx := context.Background()
	a := mustCreate(t, uc, "MP-A", entity.ProductKindRawMaterial)
	b := mustCreate(t, uc, "MP-B", entity.ProductKindRawMaterial)
	pt := mustCreate(t, uc, "PT-1", entity.ProductKindFinishedProduct)

	_, err := uc.ReplaceBOM(ctx, pt.ID, dto.ReplaceBOMRequest{Lines: []dto.BOMLineRequest{
		{ComponentProductID: a.ID, QuantityPerUnit: decimal.NewFromInt(2)},
		{ComponentProductID: b.ID, QuantityPerUnit: decimal.RequireFromString("0.5")},
	}})
	require.NoError(t, err)

	got, err := uc.GetByID(ctx, pt.ID)
	require.NoError(t, err)
	require.Len(t, got.BOM, 2)
	assert.Equal(t, a.ID, got.BOM[0].ComponentProductID)
	assert.Equal(t, 1, got.BOM[0].Position)
	assert.Equal(t, 2, got.BOM[1].Position)

	// Una lista vacía deja el producto sin BOM.
	_, err = uc.ReplaceBOM(ctx, pt.ID, dto.ReplaceBOMRequest{})
	require.NoError(t, err)
	got, err = uc.GetByID(ctx, pt.ID)
	require.NoError(t, err)
	assert.Empty(t, got.BOM)
}

func TestReplaceBOM_Validaciones(t *testing.T) {
	uc := newProductUC()
	ctx := context.Background()
	a := mustCreate(t, uc, "MP-A", entity.ProductKindRawMaterial)
	pt := mustCreate(t, uc, "PT-1", entity.ProductKindFinishedProduct)
	other := mustCreate(t, uc, "PT-2", entity.ProductKindFinishedProduct)
	one := decimal.NewFromInt(1)

	_, err := uc.ReplaceBOM(ctx, a.ID, dto.ReplaceBOMRequest{Lines: []dto.BOMLineRequest{{ComponentProductID: a.ID, QuantityPerUnit: one}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "solo los productos terminados tienen BOM")

	_, err = uc.ReplaceBOM(ctx, pt.ID, dto.ReplaceBOMRequest{Lines: []dto.BOMLineRequest{{ComponentProductID: other.ID, QuantityPerUnit: one}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "los componentes son materia prima")

	_, err = uc.ReplaceBOM(ctx, pt.ID, dto.ReplaceBOMRequest{Lines: []dto.BOMLineRequest{{ComponentProductID: a.ID, QuantityPerUnit: decimal.Zero}}})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = uc.ReplaceBOM(ctx, pt.ID, dto.ReplaceBOMRequest{Lines: []dto.BOMLineRequest{{ComponentProductID: a.ID, QuantityPerUnit: decimal.RequireFromString("0.1234567")}}})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = uc.ReplaceBOM(ctx, pt.ID, dto.ReplaceBOMRequest{Lines: []dto.BOMLineRequest{
		{ComponentProductID: a.ID, QuantityPerUnit: one},
		{ComponentProductID: a.ID, QuantityPerUnit: one},
	}})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.ReplaceBOM(ctx, pt.ID, dto.ReplaceBOMRequest{Lines: []dto.BOMLineRequest{{ComponentProductID: "no-existe", QuantityPerUnit: one}}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.ReplaceBOM(ctx, "no-existe", dto.ReplaceBOMRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
