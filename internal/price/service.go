package price

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/xrpzip/walletd/pkg/logger"
)

// ErrPriceNotFound is returned when no price is available from any
// layer, fresh or stale.
var ErrPriceNotFound = errors.New("spot price not available")

// Provider fetches the current USD spot price for the native asset,
// scaled by 10^8.
type Provider interface {
	SpotPrice(ctx context.Context) (*big.Int, error)
}

// Cache is the two-tier price cache port.
type Cache interface {
	Get(ctx context.Context) (*big.Int, bool, error)
	GetStale(ctx context.Context) (*big.Int, bool, error)
	Set(ctx context.Context, price *big.Int, source string) error
}

// Service orchestrates spot price fetching with caching and fallback.
// Lookup order: fresh cache, provider API, stale cache.
type Service struct {
	provider       Provider
	cache          Cache
	circuitBreaker *CircuitBreaker
	logger         *logger.Logger
}

func NewService(provider Provider, cache Cache, log *logger.Logger) *Service {
	return &Service{
		provider:       provider,
		cache:          cache,
		circuitBreaker: NewCircuitBreaker(3, 5*time.Minute),
		logger:         log.WithField("component", "price"),
	}
}

// GetSpotPrice returns the USD spot price scaled by 10^8. A
// StalePriceWarning error accompanies a price served from the stale
// tier; callers may keep the price and surface the warning.
func (s *Service) GetSpotPrice(ctx context.Context) (*big.Int, error) {
	if price, found, err := s.cache.Get(ctx); err == nil && found {
		return price, nil
	}

	if s.circuitBreaker.CanAttempt() {
		price, err := s.provider.SpotPrice(ctx)
		if err == nil {
			_ = s.cache.Set(ctx, price, "coingecko")
			s.circuitBreaker.RecordSuccess()
			return price, nil
		}
		s.circuitBreaker.RecordFailure()
		s.logger.WithError(err).Warn("spot price fetch failed")
	}

	if price, found, err := s.cache.GetStale(ctx); err == nil && found {
		return price, &StalePriceWarning{Price: price}
	}

	return nil, ErrPriceNotFound
}

// Spot returns the USD spot price as a float64 for display math. Stale
// prices are returned without error; only a full miss fails.
func (s *Service) Spot(ctx context.Context) (float64, error) {
	scaled, err := s.GetSpotPrice(ctx)
	if err != nil && !IsStalePrice(err) {
		return 0, err
	}
	return Unscale(scaled), nil
}

// Refresh fetches the current price from the provider and warms both
// cache tiers. Called by the background updater.
func (s *Service) Refresh(ctx context.Context) error {
	if !s.circuitBreaker.CanAttempt() {
		return nil
	}

	price, err := s.provider.SpotPrice(ctx)
	if err != nil {
		s.circuitBreaker.RecordFailure()
		return fmt.Errorf("refresh spot price: %w", err)
	}

	s.circuitBreaker.RecordSuccess()
	return s.cache.Set(ctx, price, "coingecko")
}

// IsCircuitOpen reports whether the provider is being skipped after
// repeated failures.
func (s *Service) IsCircuitOpen() bool {
	return !s.circuitBreaker.CanAttempt()
}

// Unscale converts a 10^8-scaled price to a float64.
func Unscale(scaled *big.Int) float64 {
	if scaled == nil {
		return 0
	}
	f := new(big.Float).SetInt(scaled)
	f.Quo(f, big.NewFloat(1e8))
	out, _ := f.Float64()
	return out
}

// StalePriceWarning marks a price served from the stale cache tier.
type StalePriceWarning struct {
	Price *big.Int
}

func (w *StalePriceWarning) Error() string {
	return "using stale cached spot price (API unavailable)"
}

// IsStalePrice checks whether err is a stale price warning.
func IsStalePrice(err error) bool {
	var warning *StalePriceWarning
	return errors.As(err, &warning)
}

// CircuitBreaker implements a simple circuit breaker.
type CircuitBreaker struct {
	maxFailures     int
	cooldownPeriod  time.Duration
	failures        int
	lastFailureTime time.Time
	state           CircuitState
	mu              sync.RWMutex
}

type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

func NewCircuitBreaker(maxFailures int, cooldownPeriod time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures:    maxFailures,
		cooldownPeriod: cooldownPeriod,
		state:          CircuitClosed,
	}
}

// CanAttempt returns true if a request can be attempted.
func (cb *CircuitBreaker) CanAttempt() bool {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	if cb.state == CircuitClosed {
		return true
	}
	if cb.state == CircuitOpen {
		return time.Since(cb.lastFailureTime) > cb.cooldownPeriod
	}
	// Half-open: allow one attempt.
	return true
}

func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures = 0
	cb.state = CircuitClosed
}

func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++
	cb.lastFailureTime = time.Now()
	if cb.failures >= cb.maxFailures {
		cb.state = CircuitOpen
	}
}

func (cb *CircuitBreaker) GetState() CircuitState {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}
