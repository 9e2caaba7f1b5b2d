package ratelimit

import "time"

// Bucket is the client-side mirror of a server-side rate-limit accounting
// unit. Limit, Remaining and ResetAt are written only by
// registry.updateFromResponse, which runs under the registry mutex; the
// owning worker reads them back under the same mutex (see worker.go) so the
// O(1) extra lock is the price for not having to reason about a second
// synchronisation path.
type Bucket struct {
	Key         string
	Limit       int
	Remaining   int
	ResetAt     time.Time
	Provisional bool

	queue *tokenQueue
}

func newBucket(key string, provisional bool) *Bucket {
	return &Bucket{
		Key:         key,
		Limit:       1,
		Remaining:   1,
		Provisional: provisional,
		queue:       newTokenQueue(),
	}
}

func (b *Bucket) enqueue(t *Token) {
	b.queue.push(t)
}
