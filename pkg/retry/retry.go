package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	errs "ghscraper/pkg/errors"
	"ghscraper/pkg/logger"
)

// State is the outcome of one attempt
type State string

const (
	StateSucceeded        State = "succeeded"
	StateFailed           State = "failed"
	StateRateLimited      State = "rate_limited"
	StateTransientFailure State = "transient_failure"
)

// Terminal reports whether the loop stops in this state
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// Operation is one attempt of a retryable request
type Operation func(ctx context.Context) error

// Config holds retry configuration
type Config struct {
	// Clock provides time and sleeping; SystemClock when nil
	Clock Clock
	// TransientDelay is the fixed wait after a transport failure
	TransientDelay time.Duration
	// RateLimitPadding is added to the time remaining until the rate-limit reset
	RateLimitPadding time.Duration
	// OnRetry is called before each sleep
	OnRetry func(attempt int, state State, delay time.Duration)
	// Logger for retry attempts
	Logger logger.Logger
}

// DefaultConfig returns the delays GitHub scraping has always used
func DefaultConfig() *Config {
	return &Config{
		Clock:            SystemClock{},
		TransientDelay:   5 * time.Second,
		RateLimitPadding: time.Second,
	}
}

// Classify maps the result of an attempt to the next state
func Classify(err error) State {
	if err == nil {
		return StateSucceeded
	}

	var apiErr *errs.Error
	if !errors.As(err, &apiErr) || !errs.IsRetryable(apiErr.Type) {
		return StateFailed
	}
	if apiErr.Type == errs.ErrorTypeRateLimit {
		return StateRateLimited
	}
	return StateTransientFailure
}

// RateLimitDelay returns how long to wait for a rate limit that resets at
// resetAt: the time remaining (never negative) plus padding. A zero resetAt
// means the server gave no hint.
func RateLimitDelay(resetAt, now time.Time, padding time.Duration) time.Duration {
	var wait time.Duration
	if !resetAt.IsZero() {
		wait = resetAt.Sub(now)
	}
	if wait < 0 {
		wait = 0
	}
	return wait + padding
}

// delayFor returns the sleep before the next attempt in a retryable state
func (c *Config) delayFor(state State, err error) time.Duration {
	if state == StateRateLimited {
		var apiErr *errs.Error
		var resetAt time.Time
		if errors.As(err, &apiErr) {
			resetAt = apiErr.ResetAt
		}
		return RateLimitDelay(resetAt, c.Clock.Now(), c.RateLimitPadding)
	}
	return c.TransientDelay
}

// Do runs op until it succeeds or fails with a non-retryable error. Rate
// limits and transport failures are retried without limit; only ctx
// cancellation ends the loop early.
func Do(ctx context.Context, op Operation, cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	log := logger.OrNop(cfg.Logger)

	for attempt := 1; ; attempt++ {
		err := op(ctx)
		state := Classify(err)

		switch state {
		case StateSucceeded:
			if attempt > 1 {
				log.DebugWithFields("operation succeeded after retry", map[string]interface{}{
					"attempt": attempt,
				})
			}
			return nil
		case StateFailed:
			return err
		}

		delay := cfg.delayFor(state, err)

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, state, delay)
		}

		if state == StateRateLimited {
			log.WarnWithFields(fmt.Sprintf("Rate limit exceeded, retrying in %.0f seconds...", delay.Seconds()), map[string]interface{}{
				"attempt": attempt,
				"delay":   delay,
			})
		} else {
			log.ErrorWithFields("Request failed", map[string]interface{}{
				"attempt": attempt,
				"error":   err.Error(),
				"delay":   delay,
			})
		}

		if err := cfg.Clock.Sleep(ctx, delay); err != nil {
			log.WarnWithFields("retry cancelled", map[string]interface{}{
				"attempt": attempt,
				"reason":  err.Error(),
			})
			return fmt.Errorf("retry cancelled: %w", err)
		}
	}
}

// Retrier provides a reusable retry mechanism
type Retrier struct {
	config *Config
}

// NewRetrier creates a new retrier with the given configuration
func NewRetrier(cfg *Config) *Retrier {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Retrier{config: cfg}
}

// Do executes an operation with retry logic
func (r *Retrier) Do(ctx context.Context, op Operation) error {
	return Do(ctx, op, r.config)
}

// Clock returns the clock the retrier sleeps on
func (r *Retrier) Clock() Clock {
	if r.config.Clock == nil {
		return SystemClock{}
	}
	return r.config.Clock
}
