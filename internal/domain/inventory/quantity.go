package inventory

import "github.com/shopspring/decimal"

// QuantityScale decimales que persisten las columnas de cantidad (NUMERIC(20,6)).
const QuantityScale int32 = 6

// ValidQuantity cantidad positiva representable sin redondeo en QuantityScale decimales.
func ValidQuantity(q decimal.Decimal) bool {
	return q.IsPositive() && q.Equal(q.Truncate(QuantityScale))
}
