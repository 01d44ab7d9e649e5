package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter defines the interface for rate limiting
type Limiter interface {
	// Allow reports whether a request may proceed now, consuming a token if so
	Allow() bool
	// Wait blocks until a request may proceed or ctx is done
	Wait(ctx context.Context) error
	// Reset restores the full burst
	Reset()
}

// TokenBucket is a Limiter backed by golang.org/x/time/rate
type TokenBucket struct {
	limit rate.Limit
	burst int
	inner *rate.Limiter
}

// New returns a limiter allowing requestsPerMinute requests per minute with
// the given burst. requestsPerMinute <= 0 disables pacing.
func New(requestsPerMinute, burst int) *TokenBucket {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(requestsPerMinute))
	}
	return &TokenBucket{
		limit: limit,
		burst: burst,
		inner: rate.NewLimiter(limit, burst),
	}
}

// NewTokenBucket returns a limiter that admits capacity requests per period
func NewTokenBucket(capacity int, period time.Duration) *TokenBucket {
	if capacity < 1 {
		capacity = 1
	}
	limit := rate.Every(period / time.Duration(capacity))
	return &TokenBucket{
		limit: limit,
		burst: capacity,
		inner: rate.NewLimiter(limit, capacity),
	}
}

// Allow checks if a request can proceed
func (tb *TokenBucket) Allow() bool {
	return tb.inner.Allow()
}

// Wait blocks until a token is available
func (tb *TokenBucket) Wait(ctx context.Context) error {
	return tb.inner.Wait(ctx)
}

// Reset refills the bucket
func (tb *TokenBucket) Reset() {
	tb.inner = rate.NewLimiter(tb.limit, tb.burst)
}

// Enabled reports whether the limiter ever blocks
func (tb *TokenBucket) Enabled() bool {
	return tb.limit != rate.Inf
}
