package entity

import "github.com/shopspring/decimal"

// BOMLine es una línea de la lista de materiales: cuánto de un componente (materia prima)
// requiere una unidad del producto terminado.
type BOMLine struct {
	FinishedProductID  string
	ComponentProductID string
	QuantityPerUnit    decimal.Decimal // > 0
	Position           int
}
