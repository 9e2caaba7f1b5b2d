// Package ratelimit implements the client-side rate limiter that serializes
// every outbound REST call made by the nova SDK.
//
// It discovers bucket identity lazily from response headers, keeps at most
// Limit requests in flight per bucket inside a sliding reset window, honours
// a global (or edge/Cloudflare) lockout shared by every bucket, and replays
// requests the server retroactively rejects with 429. Callers submit work
// through a Limiter and either get a response, a transport error, or a
// MaxDelayExceededError when satisfying the request would make them wait
// longer than they are willing to.
//
// The package has no notion of Discord, JSON, or HTTP framing beyond the
// handful of rate-limit headers described in Response; the caller supplies
// an Executor that performs the actual transport and is responsible for
// translating its own request/response types into Request/Response.
package ratelimit
