// Package ratelimit spaces out outbound retailer searches so a
// refresh cycle does not hammer the sites it scrapes.
package ratelimit

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

type RateLimiter interface {
	Wait(ctx context.Context) error
	SetDelay(min, max time.Duration)
}

// SearchLimiter enforces a jittered minimum delay between searches.
// The jitter keeps request spacing from looking machine-regular.
type SearchLimiter struct {
	minDelay   time.Duration
	maxDelay   time.Duration
	lastSearch time.Time
	mu         sync.Mutex
}

func NewSearchLimiter(minDelay, maxDelay time.Duration) *SearchLimiter {
	return &SearchLimiter{
		minDelay: minDelay,
		maxDelay: maxDelay,
	}
}

func (l *SearchLimiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	elapsed := time.Since(l.lastSearch)
	delay := l.delay()

	if elapsed < delay {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay - elapsed):
		}
	}

	l.lastSearch = time.Now()
	return nil
}

func (l *SearchLimiter) SetDelay(min, max time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.minDelay = min
	l.maxDelay = max
}

func (l *SearchLimiter) delay() time.Duration {
	if l.maxDelay <= l.minDelay {
		return l.minDelay
	}
	jitter := time.Duration(rand.Int63n(int64(l.maxDelay - l.minDelay)))
	return l.minDelay + jitter
}
