package ratelimit

import (
	"net/http"
	"strings"
)

// BaseRoute identifies an endpoint template independent of any bound
// parameters: the HTTP method plus the path template, e.g.
// ("GET", "/channels/{channel}/messages"). Two requests share a BaseRoute
// iff they hit the same server-side handler.
type BaseRoute struct {
	Method   string
	Template string
}

// MajorParams are the platform's documented bucket discriminators. Every
// other path parameter is deliberately excluded: two requests that differ
// only in a non-major parameter share a bucket.
type MajorParams struct {
	GuildID   string
	ChannelID string
	WebhookID string
}

// FormattedRoute is a BaseRoute with its major parameters bound.
type FormattedRoute struct {
	Base  BaseRoute
	Major MajorParams
}

// String renders a stable, human-readable identity for the route. It is
// also used as the seed for synthetic bucket hashes before the server
// assigns a real one, so it must be unique per (base, major) pair.
func (f FormattedRoute) String() string {
	var b strings.Builder
	b.WriteString(f.Base.Method)
	b.WriteByte(' ')
	b.WriteString(f.Base.Template)
	b.WriteByte('|')
	b.WriteString(f.Major.GuildID)
	b.WriteByte('|')
	b.WriteString(f.Major.ChannelID)
	b.WriteByte('|')
	b.WriteString(f.Major.WebhookID)
	return b.String()
}

// BaseOf returns the base route a formatted route was bound from.
func BaseOf(f FormattedRoute) BaseRoute {
	return f.Base
}

// MajorParamsOf returns the major parameters bound into a formatted route.
func MajorParamsOf(f FormattedRoute) MajorParams {
	return f.Major
}

// IsCreateReaction reports whether a base route is the reaction-create
// endpoint. It exists solely to pick log severity: reaction-create delays
// are expected in bulk-reacting bots and are logged at debug rather than
// info/warning.
func IsCreateReaction(b BaseRoute) bool {
	return b.Method == http.MethodPut && strings.Contains(b.Template, "/reactions/")
}

// bucketKey derives the registry key for a (hash, major-params) pair. hash
// is either a server-assigned bucket hash or a synthetic "unlimited+..."
// value minted for a route whose hash is not yet known; the two forms
// never collide because real hashes never carry that prefix.
func bucketKey(hash string, major MajorParams) string {
	var b strings.Builder
	b.Grow(len(hash) + len(major.GuildID) + len(major.ChannelID) + len(major.WebhookID) + 3)
	b.WriteString(hash)
	b.WriteByte(':')
	b.WriteString(major.GuildID)
	b.WriteByte(':')
	b.WriteString(major.ChannelID)
	b.WriteByte(':')
	b.WriteString(major.WebhookID)
	return b.String()
}

func syntheticHash(route FormattedRoute) string {
	return "unlimited+" + route.String()
}
