package ratelimit

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBucketKey_Formula(t *testing.T) {
	// §3's formula is "{hash}:{guild}:{channel}:{webhook}" applied
	// literally: an empty major param still contributes its separator, it
	// is never omitted.
	key := bucketKey("abc", MajorParams{ChannelID: "42"})
	assert.Equal(t, "abc::42:", key)
}

func TestSyntheticHash_SharedAcrossSameRoute(t *testing.T) {
	route := FormattedRoute{Base: BaseRoute{Method: http.MethodGet, Template: "/channels/:id/messages"}}
	assert.Equal(t, syntheticHash(route), syntheticHash(route))
}

func TestSyntheticHash_DistinctAcrossRoutes(t *testing.T) {
	a := FormattedRoute{Base: BaseRoute{Method: http.MethodGet, Template: "/channels/:id/messages"}}
	b := FormattedRoute{Base: BaseRoute{Method: http.MethodPost, Template: "/channels/:id/messages"}}
	assert.NotEqual(t, syntheticHash(a), syntheticHash(b))
}

func TestIsCreateReaction(t *testing.T) {
	assert.True(t, IsCreateReaction(BaseRoute{Method: http.MethodPut, Template: "/channels/:id/messages/:id/reactions/:reaction"}))
	assert.False(t, IsCreateReaction(BaseRoute{Method: http.MethodDelete, Template: "/channels/:id/messages/:id/reactions/:reaction"}))
	assert.False(t, IsCreateReaction(BaseRoute{Method: http.MethodGet, Template: "/channels/:id/messages"}))
}
