package ratelimit

import (
	"errors"
	"fmt"
	"time"
)

// ErrShutdown is returned by Execute once the limiter has begun shutting
// down, and by any token that is, or would have to start, waiting for quota
// or a lockout after Shutdown is called.
var ErrShutdown = errors.New("ratelimit: limiter is shutting down")

// MaxDelayExceededError is returned when satisfying a request would require
// waiting longer than the effective max-delay policy allows. It is a
// policy refusal evaluated before sleeping, never a timeout: the executor
// is never invoked for a token that fails this way.
type MaxDelayExceededError struct {
	// Delay is how long the token would have had to wait.
	Delay time.Duration
	// Global reports whether the wait was driven by the global/edge
	// lockout rather than this bucket's own reset.
	Global bool
}

func (e *MaxDelayExceededError) Error() string {
	return fmt.Sprintf("ratelimit: wait of %s exceeds max delay (global=%v)", e.Delay, e.Global)
}
