package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Token represents one submitted request's queue slot and completion
// channel. It is owned exclusively by whichever component currently holds
// it: the caller before submission, the bucket queue while waiting, the
// worker while executing. It is destroyed once the caller observes
// completion.
type Token struct {
	route    FormattedRoute
	request  Request
	ctx      context.Context
	maxDelay *time.Duration // per-request override of the limiter's policy

	once   sync.Once
	done   chan struct{}
	result Response
	err    error
}

func newToken(ctx context.Context, route FormattedRoute, req Request, maxDelay *time.Duration) *Token {
	return &Token{
		route:    route,
		request:  req,
		ctx:      ctx,
		maxDelay: maxDelay,
		done:     make(chan struct{}),
	}
}

// cancelled reports whether the token's context has already fired, without
// blocking.
func (t *Token) cancelled() bool {
	select {
	case <-t.ctx.Done():
		return true
	default:
		return false
	}
}

// complete is idempotent: only the first call has any effect, so a token
// raced between cancellation and a genuine response can never be completed
// twice.
func (t *Token) complete(resp Response, err error) {
	t.once.Do(func() {
		t.result = resp
		t.err = err
		close(t.done)
	})
}

// wait blocks until the token reaches a terminal state.
func (t *Token) wait() (Response, error) {
	<-t.done
	return t.result, t.err
}
