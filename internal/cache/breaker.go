package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/abgdnv/productcache/pkg/config"
	"github.com/sony/gobreaker/v2"
)

// Breaker wraps a Cache in a circuit breaker. While the circuit is open every
// call fails fast with gobreaker.ErrOpenState instead of waiting on a dead server.
// Misses count as successes.
type Breaker struct {
	next Cache
	cb   *gobreaker.CircuitBreaker[[]byte]
}

// NewBreaker creates a Breaker around next configured from cfg.
func NewBreaker(next Cache, cfg config.CircuitBreakerConfig, logger *slog.Logger) *Breaker {
	st := gobreaker.Settings{
		Name:        "product-cache-cb",
		MaxRequests: 3,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures ||
				(cfg.ErrorRatePercent > 0 &&
					counts.Requests > cfg.ConsecutiveFailures &&
					float64(counts.TotalFailures)/float64(counts.Requests)*100 > float64(cfg.ErrorRatePercent))
		},
		IsSuccessful: func(err error) bool {
			// the caller giving up is not a cache failure
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Cache circuit breaker state changed",
				"name", name, "from", from.String(), "to", to.String())
		},
	}
	return &Breaker{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[[]byte](st),
	}
}

func (b *Breaker) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var found bool
	value, err := b.cb.Execute(func() ([]byte, error) {
		v, ok, err := b.next.Get(ctx, key)
		found = ok
		return v, err
	})
	if err != nil {
		return nil, false, err
	}
	return value, found, nil
}

func (b *Breaker) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := b.cb.Execute(func() ([]byte, error) {
		return nil, b.next.Set(ctx, key, value, ttl)
	})
	return err
}

func (b *Breaker) Delete(ctx context.Context, key string) error {
	_, err := b.cb.Execute(func() ([]byte, error) {
		return nil, b.next.Delete(ctx, key)
	})
	return err
}

// Ping bypasses the breaker so readiness reflects the real server state.
func (b *Breaker) Ping(ctx context.Context) error {
	if p, ok := b.next.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// State reports the current circuit state.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}
