package ratelimit

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// registry owns every piece of shared mutable state: the learned
// route->hash map, the key->bucket map, the global/edge lockout instant
// and the set of base routes that have ever seen a 429. A single mutex
// guards all of it; every critical section below is O(1) map work.
type registry struct {
	mu sync.Mutex

	hashes        map[BaseRoute]string
	buckets       map[string]*Bucket
	hitRoutes     map[BaseRoute]struct{}
	globalResetAt time.Time
	shuttingDown  bool

	exec     Executor
	logger   Logger
	clock    Clock
	maxDelay time.Duration

	shutdownCh chan struct{}
}

func newRegistry(exec Executor, logger Logger, clock Clock, maxDelay time.Duration) *registry {
	return &registry{
		hashes:     make(map[BaseRoute]string),
		buckets:    make(map[string]*Bucket),
		hitRoutes:  make(map[BaseRoute]struct{}),
		exec:       exec,
		logger:     logger,
		clock:      clock,
		maxDelay:   maxDelay,
		shutdownCh: make(chan struct{}),
	}
}

// resolveExisting looks up the bucket for route, synthesising the
// provisional key when the hash is unknown, without creating anything. It
// is the read side of §4.B, used by the worker's migration check.
func (reg *registry) resolveExisting(route FormattedRoute) *Bucket {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	key, _ := reg.keyForLocked(route)
	return reg.buckets[key]
}

// submit is the create-and-enqueue side of §4.B and the single point that
// must never race with shutdown: the shuttingDown check, any new bucket's
// insertion into reg.buckets, and the token's push onto that bucket's queue
// all happen under one critical section, so shutdown's snapshot-then-close
// sweep can never miss a bucket a concurrent submit is about to populate.
func (reg *registry) submit(tok *Token) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if reg.shuttingDown {
		return ErrShutdown
	}

	key, provisional := reg.keyForLocked(tok.route)
	b, ok := reg.buckets[key]
	if !ok {
		b = newBucket(key, provisional)
		reg.buckets[key] = b
		go runBucketWorker(reg, b)
	}
	b.queue.push(tok)
	return nil
}

func (reg *registry) keyForLocked(route FormattedRoute) (key string, provisional bool) {
	hash, known := reg.hashes[route.Base]
	if !known {
		return bucketKey(syntheticHash(route), route.Major), true
	}
	return bucketKey(hash, route.Major), false
}

// learnHash records the first observed hash for a base route. Idempotent:
// a later, conflicting hash for the same base route is logged and ignored
// (P8) since the platform is monotonic in practice (§9 open question).
func (reg *registry) learnHash(base BaseRoute, hash string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.learnHashLocked(base, hash)
}

func (reg *registry) learnHashLocked(base BaseRoute, hash string) {
	if existing, ok := reg.hashes[base]; ok {
		if existing != hash {
			reg.logger.Warn(fmt.Sprintf(
				"ratelimit: ignoring conflicting bucket hash for %s %s (have %q, saw %q)",
				base.Method, base.Template, existing, hash))
		}
		return
	}
	reg.hashes[base] = hash
}

// promoteLocked tries to alias a newly-hashed provisional bucket under its
// real key so later lookups for the same route land on it directly. If
// another bucket already occupies that key (a race between two provisional
// buckets that both turned out to share a hash), b is left provisional and
// its pending tokens migrate lazily, one dequeue at a time, in worker.go.
func (reg *registry) promoteLocked(b *Bucket, route FormattedRoute, hash string) {
	if !b.Provisional {
		return
	}
	realKey := bucketKey(hash, route.Major)
	if existing, ok := reg.buckets[realKey]; ok {
		if existing == b {
			b.Provisional = false
		}
		return
	}
	reg.buckets[realKey] = b
	b.Key = realKey
	b.Provisional = false
}

// isRateLimited is the read-only probe behind Limiter.IsRateLimited. It
// never creates a bucket.
func (reg *registry) isRateLimited(route *FormattedRoute) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	now := reg.clock.Now()
	if route == nil {
		return reg.globalResetAt.After(now)
	}

	key, _ := reg.keyForLocked(*route)
	b, ok := reg.buckets[key]
	return ok && b.Remaining == 0
}

// updateFromResponse implements the algorithm in spec §4.B: learn the
// hash if present, handle a 429 as either a global/edge lockout or a
// bucket-scoped one (triggering replay), and otherwise refresh the
// bucket's counters. It returns true iff the worker should replay the
// token that produced resp.
func (reg *registry) updateFromResponse(route FormattedRoute, b *Bucket, resp *Response) (retry bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	now := reg.clock.Now()

	if hash := resp.Header.Get(HeaderBucket); hash != "" {
		reg.learnHashLocked(route.Base, hash)
		reg.promoteLocked(b, route, hash)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter, ok := parseHeaderFloat(resp.Header, HeaderRetryAfter)
		if !ok {
			reg.logger.Error("ratelimit: 429 response missing a parseable Retry-After header")
			return false
		}
		wait := time.Duration(retryAfter * float64(time.Second))

		isGlobal := resp.Header.Get(HeaderGlobal) == "true"
		scope := resp.Header.Get(HeaderScope)
		edge := resp.Header.Get(HeaderVia) == ""

		if isGlobal || edge {
			newReset := now.Add(wait)
			if newReset.After(reg.globalResetAt) {
				reg.globalResetAt = newReset
			}
			reg.logger.Warn(fmt.Sprintf(
				"ratelimit: global/edge lockout on %s %s for %s", route.Base.Method, route.Base.Template, wait))
			return false
		}

		b.Remaining = 0
		b.ResetAt = now.Add(wait)

		_, seenBefore := reg.hitRoutes[route.Base]
		reg.hitRoutes[route.Base] = struct{}{}

		msg := fmt.Sprintf("ratelimit: bucket %s rate limited on %s %s for %s (scope=%s)",
			b.Key, route.Base.Method, route.Base.Template, wait, scope)
		if scope == ScopeShared || (!seenBefore && wait < time.Second) {
			reg.logger.Info(msg)
		} else {
			reg.logger.Warn(msg)
		}
		return true
	}

	if limit, ok := parseHeaderInt(resp.Header, HeaderLimit); ok {
		b.Limit = limit
	}
	if remaining, ok := parseHeaderInt(resp.Header, HeaderRemaining); ok {
		b.Remaining = remaining
	}
	if resetAfter, ok := parseHeaderFloat(resp.Header, HeaderResetAfter); ok {
		b.ResetAt = now.Add(time.Duration(resetAfter * float64(time.Second)))
	}

	return false
}

func parseHeaderInt(h http.Header, key string) (int, bool) {
	v := h.Get(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseHeaderFloat(h http.Header, key string) (float64, bool) {
	v := h.Get(key)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// shutdown marks the registry closed and closes every bucket's queue in the
// same critical section that guards submit, so no token can be pushed onto
// a bucket this sweep has already closed (or fail to be swept because its
// bucket was still being created).
func (reg *registry) shutdown() {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	reg.shuttingDown = true
	close(reg.shutdownCh)

	seen := make(map[*Bucket]struct{}, len(reg.buckets))
	for _, b := range reg.buckets {
		if _, ok := seen[b]; ok {
			continue
		}
		seen[b] = struct{}{}
		b.queue.closeQueue()
	}
}
