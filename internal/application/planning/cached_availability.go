package planning

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// AvailabilityCache caché de disponibilidad por producto (p.ej. Redis).
type AvailabilityCache interface {
	GetRemaining(ctx context.Context, productID string) (qty decimal.Decimal, found bool, err error)
	SetRemaining(ctx context.Context, productID string, qty decimal.Decimal) error
}

// CachedAvailability decora un AvailabilityReader con lectura a través de caché.
// La caché es advisory: si falla se lee la fuente.
type CachedAvailability struct {
	source AvailabilityReader
	cache  AvailabilityCache
}

// NewCachedAvailability construye el decorador. Con cache nil se comporta igual que source.
func NewCachedAvailability(source AvailabilityReader, cache AvailabilityCache) *CachedAvailability {
	return &CachedAvailability{source: source, cache: cache}
}

// GetRemaining devuelve la disponibilidad cacheada o la lee de la fuente y la guarda.
func (c *CachedAvailability) GetRemaining(ctx context.Context, productID string) (decimal.Decimal, error) {
	if c.cache == nil {
		return c.source.GetRemaining(ctx, productID)
	}
	qty, found, err := c.cache.GetRemaining(ctx, productID)
	if err != nil {
		log.Warn().Err(err).Str("product_id", productID).Msg("caché de disponibilidad no disponible")
	} else if found {
		return qty, nil
	}
	qty, err = c.source.GetRemaining(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}
	if err := c.cache.SetRemaining(ctx, productID, qty); err != nil {
		log.Warn().Err(err).Str("product_id", productID).Msg("no se pudo guardar disponibilidad en caché")
	}
	return qty, nil
}
