package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de producto.
const (
	ProductKindRawMaterial     = "RAW_MATERIAL"     // materia prima (se compra a proveedores)
	ProductKindFinishedProduct = "FINISHED_PRODUCT" // producto terminado (se ensambla según BOM)
)

// Product representa un SKU del catálogo. El núcleo de inventario lo trata como dato de referencia
// de solo lectura; el catálogo es su dueño.
type Product struct {
	ID             string
	SKU            string // código único
	Name           string
	Kind           string
	ReferencePrice *decimal.Decimal // precio de compra de referencia (solo materia prima, no autoritativo)
	UnitMeasure    string
	BOM            []BOMLine // solo productos terminados, ordenado por Position
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsRawMaterial indica si el producto es materia prima.
func (p *Product) IsRawMaterial() bool { return p.Kind == ProductKindRawMaterial }

// IsFinishedProduct indica si el producto es terminado.
func (p *Product) IsFinishedProduct() bool { return p.Kind == ProductKindFinishedProduct }

// ValidKind valida el tipo de producto.
func ValidKind(kind string) bool {
	return kind == ProductKindRawMaterial || kind == ProductKindFinishedProduct
}
