package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIN  = "IN"  // entrada (una sola por lote, al crearlo)
	MovementTypeOUT = "OUT" // salida
)

// Orígenes de movimiento que no crean lote.
const (
	SourceTypeConsumption        = "CONSUMPTION"         // consumo de producción
	SourceTypeAdjustmentDecrease = "ADJUSTMENT_DECREASE" // ajuste manual negativo
)

// InventoryMovement fila del ledger (solo se agrega, nunca se edita ni se borra).
type InventoryMovement struct {
	ID                         string
	BatchID                    string
	ProductID                  string
	Type                       string
	Quantity                   decimal.Decimal // positivo entrada, negativo salida
	UnitCost                   decimal.Decimal // copiado del lote
	TotalCost                  decimal.Decimal // Quantity * UnitCost
	SourceType                 string
	SourceReference            string
	ResultingRemainingQuantity decimal.Decimal // remaining del lote justo después del movimiento
	Notes                      string          // motivo del ajuste, orden de compra, etc.
	Sequence                   int64
	CreatedAt                  time.Time
	CreatedBy                  string
}

// ValidOutboundSource valida el origen de una salida.
func ValidOutboundSource(s string) bool {
	switch s {
	case SourceTypeConsumption, SourceTypeAdjustmentDecrease:
		return true
	}
	return false
}
