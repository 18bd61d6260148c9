package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU            string           `json:"sku" validate:"required,min=1,max=100"`
	Name           string           `json:"name" validate:"required,min=1,max=200"`
	Kind           string           `json:"kind" validate:"required,oneof=RAW_MATERIAL FINISHED_PRODUCT"`
	ReferencePrice *decimal.Decimal `json:"reference_price,omitempty"`
	UnitMeasure    string           `json:"unit_measure" validate:"omitempty,max=20"`
}

// UpdateProductRequest entrada para actualizar un producto (el tipo no cambia).
type UpdateProductRequest struct {
	Name           *string          `json:"name" validate:"omitempty,min=1,max=200"`
	ReferencePrice *decimal.Decimal `json:"reference_price"`
	UnitMeasure    *string          `json:"unit_measure" validate:"omitempty,max=20"`
}

// BOMLineRequest línea de la lista de materiales.
type BOMLineRequest struct {
	ComponentProductID string          `json:"component_product_id" validate:"required"`
	QuantityPerUnit    decimal.Decimal `json:"quantity_per_unit"`
}

// ReplaceBOMRequest body para PUT /api/products/:id/bom.
type ReplaceBOMRequest struct {
	Lines []BOMLineRequest `json:"lines" validate:"dive"`
}

// BOMLineResponse línea de BOM en respuestas.
type BOMLineResponse struct {
	ComponentProductID string          `json:"component_product_id"`
	QuantityPerUnit    decimal.Decimal `json:"quantity_per_unit"`
	Position           int             `json:"position"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID             string            `json:"id"`
	SKU            string            `json:"sku"`
	Name           string            `json:"name"`
	Kind           string            `json:"kind"`
	ReferencePrice *decimal.Decimal  `json:"reference_price,omitempty"`
	UnitMeasure    string            `json:"unit_measure"`
	BOM            []BOMLineResponse `json:"bom,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
