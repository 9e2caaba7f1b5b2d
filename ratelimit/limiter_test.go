package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedResponse describes one canned Executor reply.
type scriptedResponse struct {
	status  int
	headers map[string]string
	delay   time.Duration // how long Execute blocks before returning, simulating network latency
}

// mockExecutor replays a scripted sequence of responses per route, in
// order, recording every call it receives.
type mockExecutor struct {
	mu      sync.Mutex
	scripts map[string][]scriptedResponse
	calls   []FormattedRoute
}

func newMockExecutor() *mockExecutor {
	return &mockExecutor{scripts: make(map[string][]scriptedResponse)}
}

func (m *mockExecutor) script(route FormattedRoute, responses ...scriptedResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scripts[route.String()] = responses
}

func (m *mockExecutor) Execute(ctx context.Context, route FormattedRoute, req Request) (*Response, error) {
	m.mu.Lock()
	m.calls = append(m.calls, route)
	queue := m.scripts[route.String()]
	var next scriptedResponse
	if len(queue) > 0 {
		next = queue[0]
		m.scripts[route.String()] = queue[1:]
	} else {
		next = scriptedResponse{status: http.StatusOK}
	}
	m.mu.Unlock()

	if next.delay > 0 {
		select {
		case <-time.After(next.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	h := make(http.Header)
	for k, v := range next.headers {
		h.Set(k, v)
	}
	return &Response{StatusCode: next.status, Header: h}, nil
}

func (m *mockExecutor) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func testRoute(template string) FormattedRoute {
	return FormattedRoute{Base: BaseRoute{Method: http.MethodGet, Template: template}}
}

func newTestLimiter(exec Executor, clock Clock) *Limiter {
	return New(exec, Config{Clock: clock, Logger: noopLogger{}})
}

// P1: a bucket's quota is honoured — once Remaining hits 0 the next request
// waits until ResetAt before executing.
func TestLimiter_QuotaRespected(t *testing.T) {
	clock := newFakeClock(time.Unix(0, 0))
	exec := newMockExecutor()
	route := testRoute("/p1")
	exec.script(route,
		scriptedResponse{status: http.StatusOK, headers: map[string]string{
			HeaderBucket: "hash-p1", HeaderLimit: "1", HeaderRemaining: "0", HeaderResetAfter: "2",
		}},
		scriptedResponse{status: http.StatusOK},
	)
	l := newTestLimiter(exec, clock)
	defer l.Shutdown()

	_, err := l.Execute(context.Background(), route, Request{})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		_, err := l.Execute(context.Background(), route, Request{})
		assert.NoError(t, err)
		close(done)
	}()

	// Give the worker a chance to block on the reset wait before advancing.
	time.Sleep(20 * time.Millisecond)
	select {
	case <-done:
		t.Fatal("second request completed before quota reset")
	default:
	}

	clock.Advance(2 * time.Second)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second request never completed after quota reset")
	}
}

// P2: two requests queued on the same bucket execute in submission order.
func TestLimiter_FIFOOrder(t *testing.T) {
	clock := newFakeClock(time.Unix(0, 0))
	exec := newMockExecutor()
	route := testRoute("/p2")
	l := newTestLimiter(exec, clock)
	defer l.Shutdown()

	var order []int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 5; i++ {
		wg.Add(1)
		i := i
		go func() {
			defer wg.Done()
			// Stagger submission so order is deterministic without a race.
			time.Sleep(time.Duration(i) * 5 * time.Millisecond)
			_, err := l.Execute(context.Background(), route, Request{Path: strconv.Itoa(i)})
			require.NoError(t, err)
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

// P4: a global/edge lockout delays every bucket, not just the one that hit it.
func TestLimiter_GlobalLockoutBlocksOtherBuckets(t *testing.T) {
	clock := newFakeClock(time.Unix(0, 0))
	exec := newMockExecutor()
	routeA := testRoute("/p4/a")
	routeB := testRoute("/p4/b")
	exec.script(routeA, scriptedResponse{status: http.StatusTooManyRequests, headers: map[string]string{
		HeaderRetryAfter: "3", HeaderGlobal: "true",
	}})
	l := newTestLimiter(exec, clock)
	defer l.Shutdown()

	doneA := make(chan struct{})
	go func() {
		_, _ = l.Execute(context.Background(), routeA, Request{})
		close(doneA)
	}()
	time.Sleep(20 * time.Millisecond) // let routeA's 429 register the lockout

	doneB := make(chan struct{})
	go func() {
		_, err := l.Execute(context.Background(), routeB, Request{})
		assert.NoError(t, err)
		close(doneB)
	}()

	time.Sleep(20 * time.Millisecond)
	select {
	case <-doneB:
		t.Fatal("unrelated bucket executed during global lockout")
	default:
	}

	clock.Advance(3 * time.Second)
	select {
	case <-doneB:
	case <-time.After(time.Second):
		t.Fatal("unrelated bucket never resumed after global lockout expired")
	}
}

// P5: a bucket-scoped 429 is replayed transparently — the caller only ever
// sees the eventual 200.
func TestLimiter_BucketScoped429Replay(t *testing.T) {
	clock := newFakeClock(time.Unix(0, 0))
	exec := newMockExecutor()
	route := testRoute("/p5")
	exec.script(route,
		scriptedResponse{status: http.StatusTooManyRequests, headers: map[string]string{
			HeaderRetryAfter: "1", HeaderRemaining: "0", HeaderResetAfter: "1", HeaderVia: "1.1 google",
		}},
		scriptedResponse{status: http.StatusOK},
	)
	l := newTestLimiter(exec, clock)
	defer l.Shutdown()

	done := make(chan *Response)
	go func() {
		resp, err := l.Execute(context.Background(), route, Request{})
		require.NoError(t, err)
		done <- &resp
	}()

	time.Sleep(20 * time.Millisecond)
	clock.Advance(time.Second)

	select {
	case resp := <-done:
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	case <-time.After(time.Second):
		t.Fatal("request never completed after 429 replay")
	}
	assert.Equal(t, 2, exec.callCount())
}

// P6: a wait that would exceed the configured max delay is refused up
// front, without ever invoking the executor.
func TestLimiter_MaxDelayExceeded(t *testing.T) {
	clock := newFakeClock(time.Unix(0, 0))
	exec := newMockExecutor()
	route := testRoute("/p6")
	exec.script(route, scriptedResponse{status: http.StatusOK, headers: map[string]string{
		HeaderBucket: "hash-p6", HeaderLimit: "1", HeaderRemaining: "0", HeaderResetAfter: "30",
	}})
	l := New(exec, Config{Clock: clock, Logger: noopLogger{}, MaxDelay: time.Second})
	defer l.Shutdown()

	_, err := l.Execute(context.Background(), route, Request{})
	require.NoError(t, err)

	_, err = l.Execute(context.Background(), route, Request{})
	var maxDelayErr *MaxDelayExceededError
	require.ErrorAs(t, err, &maxDelayErr)
	assert.Equal(t, 1, exec.callCount())
}

// P7: cancelling a request's context aborts its wait instead of letting it
// consume quota or block the bucket's other queued tokens.
func TestLimiter_CancellationDuringWait(t *testing.T) {
	clock := newFakeClock(time.Unix(0, 0))
	exec := newMockExecutor()
	route := testRoute("/p7")
	exec.script(route, scriptedResponse{status: http.StatusOK, headers: map[string]string{
		HeaderBucket: "hash-p7", HeaderLimit: "1", HeaderRemaining: "0", HeaderResetAfter: "30",
	}})
	l := newTestLimiter(exec, clock)
	defer l.Shutdown()

	_, err := l.Execute(context.Background(), route, Request{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		_, err := l.Execute(ctx, route, Request{})
		done <- err
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled request never completed")
	}
}

// P8: once a route's bucket hash is learned, a later conflicting hash is
// ignored rather than splitting the route across two buckets.
func TestLimiter_HashMonotonicity(t *testing.T) {
	clock := newFakeClock(time.Unix(0, 0))
	exec := newMockExecutor()
	route := testRoute("/p8")
	exec.script(route,
		scriptedResponse{status: http.StatusOK, headers: map[string]string{HeaderBucket: "hash-a"}},
		scriptedResponse{status: http.StatusOK, headers: map[string]string{HeaderBucket: "hash-b", HeaderRemaining: "0", HeaderResetAfter: "5"}},
		scriptedResponse{status: http.StatusOK},
	)
	l := newTestLimiter(exec, clock)
	defer l.Shutdown()

	_, err := l.Execute(context.Background(), route, Request{})
	require.NoError(t, err)

	l.reg.mu.Lock()
	key1, _ := l.reg.keyForLocked(route)
	l.reg.mu.Unlock()

	_, err = l.Execute(context.Background(), route, Request{})
	require.NoError(t, err)

	l.reg.mu.Lock()
	key2, _ := l.reg.keyForLocked(route)
	l.reg.mu.Unlock()
	assert.Equal(t, key1, key2, "conflicting hash must not change the route's bucket key")
}

// Migrating a provisional bucket's queued tokens: a burst of concurrent
// first-time requests to the same route must all land on the same real
// bucket once the hash is learned, not scatter across several provisional
// ones.
func TestLimiter_ProvisionalBucketMigration(t *testing.T) {
	clock := newFakeClock(time.Unix(0, 0))
	exec := newMockExecutor()
	route := testRoute("/migrate")
	for i := 0; i < 5; i++ {
		exec.script(route, scriptedResponse{status: http.StatusOK, headers: map[string]string{
			HeaderBucket: "hash-migrate", HeaderLimit: "5", HeaderRemaining: "4", HeaderResetAfter: "1",
		}})
	}
	l := newTestLimiter(exec, clock)
	defer l.Shutdown()

	var wg sync.WaitGroup
	var failures int32
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.Execute(context.Background(), route, Request{}); err != nil {
				atomic.AddInt32(&failures, 1)
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, failures)
	assert.Equal(t, 5, exec.callCount())
}

// IsRateLimited must report the live state of a bucket without creating one
// for a route that has never been submitted.
func TestLimiter_IsRateLimitedDoesNotCreateBucket(t *testing.T) {
	clock := newFakeClock(time.Unix(0, 0))
	exec := newMockExecutor()
	route := testRoute("/probe")
	l := newTestLimiter(exec, clock)
	defer l.Shutdown()

	assert.False(t, l.IsRateLimited(&route))
	assert.False(t, l.IsRateLimited(nil))
	assert.Nil(t, l.reg.resolveExisting(route))
}

// Shutdown must let already-queued tokens drain rather than dropping them.
func TestLimiter_ShutdownDrainsQueuedTokens(t *testing.T) {
	clock := newFakeClock(time.Unix(0, 0))
	exec := newMockExecutor()
	route := testRoute("/shutdown")
	l := newTestLimiter(exec, clock)

	done := make(chan error, 1)
	go func() {
		_, err := l.Execute(context.Background(), route, Request{})
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("queued token never completed")
	}

	l.Shutdown()

	_, err := l.Execute(context.Background(), route, Request{})
	assert.ErrorIs(t, err, ErrShutdown)
}
