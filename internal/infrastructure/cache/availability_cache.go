package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-mrp/internal/application/inventory"
	"github.com/jhoicas/Inventario-mrp/internal/application/planning"
)

var (
	_ planning.AvailabilityCache        = (*AvailabilityCache)(nil)
	_ inventory.AvailabilityInvalidator = (*AvailabilityCache)(nil)
)

const availabilityPrefix = "inv:remaining:"

// AvailabilityCache guarda el saldo disponible por producto en Redis con TTL.
type AvailabilityCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewAvailabilityCache construye la caché. ttl <= 0 usa 30 segundos.
func NewAvailabilityCache(rdb redis.Cmdable, ttl time.Duration) *AvailabilityCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &AvailabilityCache{rdb: rdb, ttl: ttl}
}

func availabilityKey(productID string) string {
	return availabilityPrefix + productID
}

// GetRemaining lee el saldo cacheado; found=false si la clave no existe.
func (c *AvailabilityCache) GetRemaining(ctx context.Context, productID string) (decimal.Decimal, bool, error) {
	val, err := c.rdb.Get(ctx, availabilityKey(productID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, fmt.Errorf("get cached remaining: %w", err)
	}
	qty, err := decimal.NewFromString(val)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("parse cached remaining %q: %w", val, err)
	}
	return qty, true, nil
}

// SetRemaining guarda el saldo con el TTL configurado.
func (c *AvailabilityCache) SetRemaining(ctx context.Context, productID string, qty decimal.Decimal) error {
	if err := c.rdb.Set(ctx, availabilityKey(productID), qty.String(), c.ttl).Err(); err != nil {
		return fmt.Errorf("set cached remaining: %w", err)
	}
	return nil
}

// Invalidate borra los saldos cacheados de los productos. Las fallas solo se registran.
func (c *AvailabilityCache) Invalidate(ctx context.Context, productIDs ...string) {
	if len(productIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		keys = append(keys, availabilityKey(id))
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Strs("product_ids", productIDs).Msg("no se pudo invalidar disponibilidad en caché")
	}
}
