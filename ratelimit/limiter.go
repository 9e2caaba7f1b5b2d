package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Infinite disables the max-delay cap: a request waits as long as quota
// requires instead of being refused with MaxDelayExceededError.
const Infinite time.Duration = -1

// Config configures a Limiter.
type Config struct {
	// MaxDelay is the default cap on how long a request may wait before
	// being refused with MaxDelayExceededError. Zero means Infinite.
	MaxDelay time.Duration
	// Logger receives structured events; defaults to a no-op logger.
	Logger Logger
	// Clock is swappable for deterministic tests; defaults to the real
	// wall clock.
	Clock Clock
}

// Limiter is the global state and public entry point described in §4.D. It
// is the serializing queue every outbound request flows through: Execute
// resolves or creates the request's bucket, posts a token, and waits for
// it to complete.
type Limiter struct {
	reg          *registry
	shutdownOnce sync.Once
}

// New creates a Limiter that dispatches accepted requests to exec.
func New(exec Executor, cfg Config) *Limiter {
	if cfg.Logger == nil {
		cfg.Logger = noopLogger{}
	}
	if cfg.Clock == nil {
		cfg.Clock = realClock{}
	}
	if cfg.MaxDelay == 0 {
		cfg.MaxDelay = Infinite
	}
	return &Limiter{reg: newRegistry(exec, cfg.Logger, cfg.Clock, cfg.MaxDelay)}
}

// RequestOption customizes a single call to Execute.
type RequestOption func(*requestConfig)

type requestConfig struct {
	maxDelay *time.Duration
}

// WithMaxDelay overrides the limiter-wide max-delay policy for one request.
func WithMaxDelay(d time.Duration) RequestOption {
	return func(c *requestConfig) { c.maxDelay = &d }
}

// Execute is the external entry point (§6): it resolves or creates route's
// bucket, enqueues a token carrying req, and blocks until the token
// completes. Cancelling ctx aborts any wait or in-flight call and returns
// ctx.Err().
func (l *Limiter) Execute(ctx context.Context, route FormattedRoute, req Request, opts ...RequestOption) (Response, error) {
	var rc requestConfig
	for _, opt := range opts {
		opt(&rc)
	}

	tok := newToken(ctx, route, req, rc.maxDelay)
	if err := l.reg.submit(tok); err != nil {
		return Response{}, err
	}

	return tok.wait()
}

// IsRateLimited is a read-only probe (§4.D). With route nil it reports the
// global/edge lockout; with a route it reports whether that route's bucket
// exists and its last recorded remaining quota is zero (the reset time is
// not consulted). It never creates a bucket.
func (l *Limiter) IsRateLimited(route *FormattedRoute) bool {
	return l.reg.isRateLimited(route)
}

// Shutdown stops accepting new submissions and lets every bucket worker
// drain its queue: already-queued tokens still run the normal quota/replay
// path, but see the shutdown signal at every wait point and complete with
// ErrShutdown instead of sleeping further. Shutdown is idempotent.
func (l *Limiter) Shutdown() {
	l.shutdownOnce.Do(l.reg.shutdown)
}
