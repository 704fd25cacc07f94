package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultWait is used when a rate-limit signal carries no usable hint.
const DefaultWait = 15 * time.Second

// LimitedError reports that the remote rejected a call because of rate limiting.
type LimitedError struct {
	// RetryAfter is the server hint; zero means no hint was given.
	RetryAfter time.Duration
	// Reason is a short description of how the signal was detected.
	Reason string
}

func (e *LimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited (%s), retry after %s", e.Reason, e.RetryAfter)
	}
	return fmt.Sprintf("rate limited (%s)", e.Reason)
}

// Stats is the rate-limit bookkeeping of one Controller.
type Stats struct {
	// Hits counts detected rate-limit signals.
	Hits int
	// Waited is the total time spent in completed waits.
	Waited time.Duration
}

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Controller retries calls that were rate limited. It is not safe for concurrent use.
type Controller struct {
	defaultWait time.Duration
	pacer       *rate.Limiter
	sleep       SleepFunc
	logger      *zap.Logger
	stats       Stats
}

// Option configures a Controller.
type Option func(*Controller)

// WithDefaultWait overrides DefaultWait.
func WithDefaultWait(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.defaultWait = d
		}
	}
}

// WithRequestsPerMinute paces outgoing calls so the remote budget is rarely exhausted.
// Zero or negative disables pacing.
func WithRequestsPerMinute(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.pacer = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), 1)
		}
	}
}

// WithSleep replaces the wait implementation.
func WithSleep(fn SleepFunc) Option {
	return func(c *Controller) {
		if fn != nil {
			c.sleep = fn
		}
	}
}

// New creates a Controller.
func New(logger *zap.Logger, opts ...Option) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Controller{
		defaultWait: DefaultWait,
		sleep:       Sleep,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do runs call until it returns something other than a *LimitedError.
func (c *Controller) Do(ctx context.Context, call func(ctx context.Context) error) error {
	for {
		if c.pacer != nil {
			if err := c.pacer.Wait(ctx); err != nil {
				return err
			}
		}

		err := call(ctx)

		var limited *LimitedError
		if !errors.As(err, &limited) {
			return err
		}

		wait := limited.RetryAfter
		if wait <= 0 {
			wait = c.defaultWait
		}
		c.stats.Hits++
		c.logger.Warn("Rate limit hit, waiting before retrying",
			zap.Duration("wait", wait),
			zap.String("reason", limited.Reason),
			zap.Int("hits", c.stats.Hits),
		)

		if err := c.sleep(ctx, wait); err != nil {
			return err
		}
		c.stats.Waited += wait
	}
}

// Stats returns a snapshot of the controller bookkeeping.
func (c *Controller) Stats() Stats {
	return c.stats
}

// Sleep waits for d, returning ctx.Err() as soon as ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
