package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xrpzip/walletd/pkg/logger"
)

const (
	// DefaultTTL is how long a fresh spot price is trusted.
	DefaultTTL = 60 * time.Second

	// StaleTTL is the fallback window when the price API is down.
	StaleTTL = 24 * time.Hour

	spotKey  = "price:xrp:usd"
	staleKey = "price:xrp:usd:stale"
)

// PriceCache is a Redis-backed cache for the native asset spot price.
// It keeps two tiers: a short-lived fresh entry and a long-lived stale
// entry used only when the upstream API is unavailable.
type PriceCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

func NewPriceCache(client *redis.Client, log *logger.Logger) *PriceCache {
	return &PriceCache{
		client: client,
		ttl:    DefaultTTL,
		logger: log.WithField("component", "price_cache"),
	}
}

func NewPriceCacheWithTTL(client *redis.Client, ttl time.Duration, log *logger.Logger) *PriceCache {
	c := NewPriceCache(client, log)
	c.ttl = ttl
	return c
}

type cachedPrice struct {
	USDPrice  string    `json:"usd_price"` // big.Int serialized as string
	UpdatedAt time.Time `json:"updated_at"`
	Source    string    `json:"source"`
}

// Get returns the fresh cached spot price, if present.
func (c *PriceCache) Get(ctx context.Context) (*big.Int, bool, error) {
	return c.get(ctx, spotKey)
}

// GetStale returns the stale-tier spot price, if present.
func (c *PriceCache) GetStale(ctx context.Context) (*big.Int, bool, error) {
	return c.get(ctx, staleKey)
}

func (c *PriceCache) get(ctx context.Context, key string) (*big.Int, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		c.logger.Debug("cache miss", "key", key)
		return nil, false, nil
	}
	if err != nil {
		c.logger.Error("cache error", "operation", "get", "key", key, "error", err)
		return nil, false, fmt.Errorf("failed to get cached price: %w", err)
	}

	var cached cachedPrice
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached price: %w", err)
	}

	price := new(big.Int)
	if _, ok := price.SetString(cached.USDPrice, 10); !ok {
		return nil, false, fmt.Errorf("failed to parse cached price: invalid number")
	}

	c.logger.Debug("cache hit", "key", key)
	return price, true, nil
}

// Set stores the spot price in both tiers: fresh with the cache TTL
// and stale with the 24-hour fallback TTL.
func (c *PriceCache) Set(ctx context.Context, price *big.Int, source string) error {
	if err := c.set(ctx, spotKey, price, source, c.ttl); err != nil {
		return err
	}
	return c.set(ctx, staleKey, price, source, StaleTTL)
}

func (c *PriceCache) set(ctx context.Context, key string, price *big.Int, source string, ttl time.Duration) error {
	cached := cachedPrice{
		USDPrice:  price.String(),
		UpdatedAt: time.Now().UTC(),
		Source:    source,
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("failed to marshal price: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.logger.Error("cache error", "operation", "set", "key", key, "error", err)
		return fmt.Errorf("failed to set cached price: %w", err)
	}
	return nil
}

// Clear removes both price tiers.
func (c *PriceCache) Clear(ctx context.Context) error {
	return c.client.Del(ctx, spotKey, staleKey).Err()
}
