package redis_test

import (
	"context"
	"io"
	"math/big"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xrpzip/walletd/internal/infra/redis"
	"github.com/xrpzip/walletd/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New("development", io.Discard)
}

// setupTestClient connects to a local Redis, using DB 15 for tests.
func setupTestClient(t *testing.T) *goredis.Client {
	t.Helper()
	client := goredis.NewClient(&goredis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skip("Skipping test: Redis not available")
	}
	require.NoError(t, client.FlushDB(ctx).Err())
	t.Cleanup(func() { client.Close() })
	return client
}

func TestPriceCache_SetAndGet(t *testing.T) {
	cache := redis.NewPriceCache(setupTestClient(t), testLogger())
	ctx := context.Background()

	price := big.NewInt(215000000) // $2.15 * 10^8
	require.NoError(t, cache.Set(ctx, price, "coingecko"))

	got, found, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, price.String(), got.String())

	// Set writes both tiers; the stale copy must match.
	stale, found, err := cache.GetStale(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, price.String(), stale.String())
}

func TestPriceCache_MissIsNotAnError(t *testing.T) {
	cache := redis.NewPriceCache(setupTestClient(t), testLogger())
	ctx := context.Background()

	got, found, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)

	got, found, err = cache.GetStale(ctx)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)
}

func TestPriceCache_FreshExpiresStaleSurvives(t *testing.T) {
	client := setupTestClient(t)
	cache := redis.NewPriceCacheWithTTL(client, 1*time.Second, testLogger())
	ctx := context.Background()

	price := big.NewInt(215000000)
	require.NoError(t, cache.Set(ctx, price, "coingecko"))

	_, found, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.True(t, found)

	time.Sleep(1500 * time.Millisecond)

	_, found, err = cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, found, "fresh tier should have expired")

	stale, found, err := cache.GetStale(ctx)
	require.NoError(t, err)
	assert.True(t, found, "stale tier keeps the 24h TTL")
	assert.Equal(t, price.String(), stale.String())
}

func TestPriceCache_Clear(t *testing.T) {
	cache := redis.NewPriceCache(setupTestClient(t), testLogger())
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, big.NewInt(215000000), "coingecko"))
	require.NoError(t, cache.Clear(ctx))

	_, found, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = cache.GetStale(ctx)
	require.NoError(t, err)
	assert.False(t, found)
}
