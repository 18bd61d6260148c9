package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Inventario-mrp/internal/application/inventory"
	"github.com/jhoicas/Inventario-mrp/internal/domain"
)

var _ inventory.ProductLocker = (*ProductLocker)(nil)

const lockPrefix = "inv:lock:product:"

// ProductLocker lock distribuido por producto para serializar salidas entre instancias.
type ProductLocker struct {
	client *redislock.Client
	ttl    time.Duration
	retry  redislock.RetryStrategy
}

// NewProductLocker construye el locker. ttl <= 0 usa 15 segundos.
// Mientras el lock está tomado se reintenta cada 50ms hasta que ctx expire.
func NewProductLocker(rdb redislock.RedisClient, ttl time.Duration) *ProductLocker {
	if ttl <= 0 {
		ttl = 15 * time.Second
	}
	return &ProductLocker{
		client: redislock.New(rdb),
		ttl:    ttl,
		retry:  redislock.LinearBackoff(50 * time.Millisecond),
	}
}

// Lock obtiene el lock del producto. Si no se obtiene devuelve ErrStorageConflict.
func (l *ProductLocker) Lock(ctx context.Context, productID string) (func(), error) {
	key := lockPrefix + productID
	lock, err := l.client.Obtain(ctx, key, l.ttl, &redislock.Options{RetryStrategy: l.retry})
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: producto %s bloqueado", domain.ErrStorageConflict, productID)
		}
		return nil, fmt.Errorf("obtain product lock: %w", err)
	}
	release := func() {
		if err := lock.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			log.Warn().Err(err).Str("product_id", productID).Msg("no se pudo liberar lock de producto")
		}
	}
	return release, nil
}
