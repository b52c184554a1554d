package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter hands out one token bucket per upstream operation.
type Limiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	defaults Config
}

type Config struct {
	RequestsPerSecond float64
	BurstSize         int
}

// Amadeus' test environment allows 10 requests per second per key.
func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 10,
		BurstSize:         1,
	}
}

func New(config Config) *Limiter {
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = DefaultConfig().RequestsPerSecond
	}
	if config.BurstSize <= 0 {
		config.BurstSize = 1
	}
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		defaults: config,
	}
}

func (l *Limiter) get(op string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[op]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, exists = l.limiters[op]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(rate.Limit(l.defaults.RequestsPerSecond), l.defaults.BurstSize)
	l.limiters[op] = limiter
	return limiter
}

func (l *Limiter) SetLimit(op string, rps float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.limiters[op] = rate.NewLimiter(rate.Limit(rps), burst)
}

// Wait blocks until op may run or ctx is done. A nil Limiter never blocks.
func (l *Limiter) Wait(ctx context.Context, op string) error {
	if l == nil {
		return nil
	}
	return l.get(op).Wait(ctx)
}
