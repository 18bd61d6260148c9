package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Origen de un lote (y de su movimiento de entrada).
const (
	SourceTypePurchase   = "PURCHASE"   // recepción de compra
	SourceTypeProduction = "PRODUCTION" // recepción de producción terminada
	SourceTypeAdjustment = "ADJUSTMENT" // ajuste manual positivo
)

// InventoryBatch es la unidad de stock propio: una recepción con su cantidad y costo.
// RemainingQuantity solo disminuye (consumo o ajuste negativo); un ajuste positivo crea un lote nuevo.
// Un lote agotado se conserva para auditoría.
type InventoryBatch struct {
	ID                string
	ProductID         string
	BatchNumber       string
	InboundQuantity   decimal.Decimal // fijo al crear
	RemainingQuantity decimal.Decimal // 0 <= remaining <= inbound
	UnitCost          decimal.Decimal // costo aterrizado por unidad, fijo al crear
	SourceType        string
	SourceReference   string
	InboundDate       time.Time // clave FIFO
	Location          string
	Sequence          int64 // orden de inserción; desempate FIFO
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TotalCost valor actual del lote (remaining * unitCost).
func (b *InventoryBatch) TotalCost() decimal.Decimal {
	return b.RemainingQuantity.Mul(b.UnitCost)
}

// IsExhausted indica si el lote ya no tiene cantidad disponible.
func (b *InventoryBatch) IsExhausted() bool {
	return !b.RemainingQuantity.IsPositive()
}

// FIFOBefore define el orden de consumo: fecha de entrada ascendente y, a igual fecha, orden de inserción.
func (b *InventoryBatch) FIFOBefore(other *InventoryBatch) bool {
	if !b.InboundDate.Equal(other.InboundDate) {
		return b.InboundDate.Before(other.InboundDate)
	}
	return b.Sequence < other.Sequence
}

// ValidBatchSource valida el origen de un lote.
func ValidBatchSource(s string) bool {
	switch s {
	case SourceTypePurchase, SourceTypeProduction, SourceTypeAdjustment:
		return true
	}
	return false
}
