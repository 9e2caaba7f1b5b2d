package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// runBucketWorker is the bucket's sole consumer (§4.C). It drains tokens in
// submission order, skipping already-cancelled ones without consuming
// quota, until the queue is closed and empty.
func runBucketWorker(reg *registry, b *Bucket) {
	for {
		tok, ok := b.queue.pop()
		if !ok {
			return
		}
		if tok.cancelled() {
			tok.complete(Response{}, tok.ctx.Err())
			continue
		}
		processToken(reg, b, tok)
	}
}

// processToken drives a single token through migration, quota and
// execution until it reaches a terminal state or is handed off to another
// bucket's queue. It implements the retry loop of §4.C.2.
func processToken(reg *registry, b *Bucket, tok *Token) {
	for {
		if b.Provisional {
			resolved := reg.resolveExisting(tok.route)
			if resolved != nil && resolved != b {
				reg.logger.Debug(fmt.Sprintf(
					"ratelimit: migrating %s %s from provisional bucket %s to %s",
					tok.route.Base.Method, tok.route.Base.Template, b.Key, resolved.Key))
				resolved.enqueue(tok)
				return
			}
		}

		delay, isGlobal := computeDelay(reg, b)

		if delay > 0 {
			delayCap := reg.maxDelay
			if tok.maxDelay != nil {
				delayCap = *tok.maxDelay
			}
			if delayCap >= 0 && delay > delayCap {
				tok.complete(Response{}, &MaxDelayExceededError{Delay: delay, Global: isGlobal})
				return
			}

			logDelay(reg, tok.route, delay, isGlobal)

			select {
			case <-tok.ctx.Done():
				tok.complete(Response{}, tok.ctx.Err())
				return
			case <-reg.shutdownCh:
				tok.complete(Response{}, ErrShutdown)
				return
			case <-reg.clock.After(delay):
			}
		}

		resp, err := reg.exec.Execute(tok.ctx, tok.route, tok.request)
		if err != nil {
			logExecError(reg, tok.route, err)
			tok.complete(Response{}, err)
			return
		}

		if reg.updateFromResponse(tok.route, b, resp) {
			continue
		}
		tok.complete(*resp, nil)
		return
	}
}

func computeDelay(reg *registry, b *Bucket) (delay time.Duration, isGlobal bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	now := reg.clock.Now()
	if reg.globalResetAt.After(now) {
		return reg.globalResetAt.Sub(now), true
	}
	if b.Remaining == 0 && b.ResetAt.After(now) {
		return b.ResetAt.Sub(now), false
	}
	return 0, false
}

func logDelay(reg *registry, route FormattedRoute, delay time.Duration, isGlobal bool) {
	msg := fmt.Sprintf("ratelimit: delaying %s %s by %s (global=%v)",
		route.Base.Method, route.Base.Template, delay, isGlobal)
	if IsCreateReaction(route.Base) {
		reg.logger.Debug(msg)
	} else {
		reg.logger.Info(msg)
	}
}

func logExecError(reg *registry, route FormattedRoute, err error) {
	msg := fmt.Sprintf("ratelimit: request failed for %s %s: %v", route.Base.Method, route.Base.Template, err)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		reg.logger.Debug(msg)
	} else {
		reg.logger.Error(msg)
	}
}
