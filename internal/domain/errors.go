package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas salvo decimal).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")

	// Ledger de lotes y movimientos.
	ErrInvalidQuantity           = errors.New("cantidad inválida")
	ErrDuplicateBatchNumber      = errors.New("el número de lote ya existe para el producto")
	ErrInsufficientBatchQuantity = errors.New("cantidad insuficiente en el lote")
	ErrInsufficientStock         = errors.New("stock insuficiente")

	// Transitorios: se puede reintentar la operación completa.
	ErrStorageTimeout  = errors.New("tiempo de espera agotado en almacenamiento")
	ErrStorageConflict = errors.New("conflicto de concurrencia en almacenamiento")
)

// ShortfallError acompaña a ErrInsufficientStock con el faltante, para que el llamador
// decida entre cumplir parcialmente o abortar.
type ShortfallError struct {
	ProductID string
	Requested decimal.Decimal
	Available decimal.Decimal
}

// Shortfall devuelve Requested - Available (nunca negativo).
func (e *ShortfallError) Shortfall() decimal.Decimal {
	s := e.Requested.Sub(e.Available)
	if s.IsNegative() {
		return decimal.Zero
	}
	return s
}

func (e *ShortfallError) Error() string {
	return fmt.Sprintf("%s: producto %s solicitado %s disponible %s faltante %s",
		ErrInsufficientStock.Error(), e.ProductID, e.Requested.String(), e.Available.String(), e.Shortfall().String())
}

func (e *ShortfallError) Unwrap() error { return ErrInsufficientStock }

// IsRetryable indica si el error es transitorio (timeout o conflicto de almacenamiento).
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStorageTimeout) || errors.Is(err, ErrStorageConflict)
}
