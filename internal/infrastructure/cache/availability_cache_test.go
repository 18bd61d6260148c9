package cache_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-mrp/internal/infrastructure/cache"
)

// fakeRedis implementa solo Get/Set/Del; el resto de Cmdable queda sin implementar.
type fakeRedis struct {
	redis.Cmdable
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
	fail error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return redis.NewStringResult("", f.fail)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, exp time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return redis.NewStatusResult("", f.fail)
	}
	f.data[key] = value.(string)
	f.ttls[key] = exp
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return redis.NewIntResult(0, f.fail)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestAvailabilityCache_SetGetInvalidate(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	c := cache.NewAvailabilityCache(rdb, time.Minute)

	_, found, err := c.GetRemaining(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.SetRemaining(ctx, "p1", decimal.RequireFromString("12.5")))
	qty, found, err := c.GetRemaining(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, qty.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, time.Minute, rdb.ttls["inv:remaining:p1"])

	c.Invalidate(ctx, "p1", "p2")
	_, found, err = c.GetRemaining(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAvailabilityCache_TTLPorDefecto(t *testing.T) {
	rdb := newFakeRedis()
	c := cache.NewAvailabilityCache(rdb, 0)
	require.NoError(t, c.SetRemaining(context.Background(), "p1", decimal.NewFromInt(3)))
	assert.Equal(t, 30*time.Second, rdb.ttls["inv:remaining:p1"])
}

func TestAvailabilityCache_ValorCorrupto(t *testing.T) {
	rdb := newFakeRedis()
	rdb.data["inv:remaining:p1"] = "no-es-numero"
	c := cache.NewAvailabilityCache(rdb, time.Minute)

	_, found, err := c.GetRemaining(context.Background(), "p1")
	assert.Error(t, err)
	assert.False(t, found)
}

func TestAvailabilityCache_FallaDeRedis(t *testing.T) {
	rdb := newFakeRedis()
	rdb.fail = errors.New("connection refused")
	c := cache.NewAvailabilityCache(rdb, time.Minute)
	ctx := context.Background()

	_, _, err := c.GetRemaining(ctx, "p1")
	assert.Error(t, err)
	assert.Error(t, c.SetRemaining(ctx, "p1", decimal.NewFromInt(1)))
	assert.NotPanics(t, func() { c.Invalidate(ctx, "p1") })
}
