/************************************************************************************
 *
 * nova, a lightweight client SDK for chat-platform REST & Gateway APIs
 *
 * SPDX-License-Identifier: BSD-3-Clause
 *
 * Copyright 2025 The Nova Authors
 *
 * Licensed under the BSD 3-Clause License.
 * See the LICENSE file for details.
 *
 ************************************************************************************/

package nova

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/novachat/nova/ratelimit"
)

type mockRoundTripper struct {
	fn func(req *http.Request) (*http.Response, error)
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.fn(req)
}

func newMockResponse(status int, body string, headers map[string]string) *http.Response {
	h := make(http.Header)
	for k, v := range headers {
		h.Set(k, v)
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     h,
	}
}

func newTestRequester(mockFn func(*http.Request) (*http.Response, error)) *requester {
	mockClient := &http.Client{
		Transport: &mockRoundTripper{fn: mockFn},
		Timeout:   5 * time.Second,
	}
	logger := NewDefaultLogger(nil, LogLevelDebugLevel)
	return newRequester(mockClient, "testtoken", logger)
}

func execRequest(t *testing.T, r *requester, method, endpoint string) (*ratelimit.Response, error) {
	t.Helper()
	return r.Execute(context.Background(), routeFor(method, endpoint), ratelimit.Request{
		Path:          endpoint,
		AuthWithToken: true,
	})
}

func TestRequester_Execute_Success(t *testing.T) {
	r := newTestRequester(func(req *http.Request) (*http.Response, error) {
		return newMockResponse(200, `{"ok":true}`, map[string]string{
			"X-RateLimit-Remaining":   "10",
			"X-RateLimit-Reset-After": "1",
		}), nil
	})

	resp, err := execRequest(t, r, "GET", "/channels/123/messages")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 got %d", resp.StatusCode)
	}
}

func TestRequester_Execute_PassesThrough429(t *testing.T) {
	// Execute must not retry on its own when the server replies 429: that
	// replay decision belongs to the ratelimit package, not the transport.
	attempts := int32(0)
	r := newTestRequester(func(req *http.Request) (*http.Response, error) {
		atomic.AddInt32(&attempts, 1)
		return newMockResponse(429, `{"message":"rate limited"}`, map[string]string{
			"Retry-After": "0.1",
		}), nil
	})

	resp, err := execRequest(t, r, "GET", "/channels/123/messages")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 429 {
		t.Fatalf("expected 429 got %d", resp.StatusCode)
	}
	if attempts != 1 {
		t.Fatalf("expected exactly 1 attempt, got %d", attempts)
	}
}

func TestRequester_Execute_RetriesRetryableStatusCodes(t *testing.T) {
	attempts := int32(0)
	r := newTestRequester(func(req *http.Request) (*http.Response, error) {
		n := atomic.AddInt32(&attempts, 1)
		if n <= 3 {
			return newMockResponse(503, "Service Unavailable", nil), nil
		}
		return newMockResponse(200, `{"ok":true}`, nil), nil
	})

	resp, err := execRequest(t, r, "GET", "/channels/123/messages")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 got %d", resp.StatusCode)
	}
	if attempts != 4 {
		t.Fatalf("expected 4 attempts, got %d", attempts)
	}
}

func TestRequester_Execute_MaxRetriesExceeded(t *testing.T) {
	r := newTestRequester(func(req *http.Request) (*http.Response, error) {
		return newMockResponse(503, "Service Unavailable", nil), nil
	})

	_, err := execRequest(t, r, "GET", "/channels/123/messages")
	if err == nil || !strings.Contains(err.Error(), "max retries") {
		t.Fatalf("expected max retries error, got %v", err)
	}
}

func TestRequester_Execute_ContextCancelled(t *testing.T) {
	// A cancelled context must stop Execute from retrying transport errors:
	// the mock round tripper reports ctx.Err() the way a real transport
	// would once the context it was given is done.
	attempts := int32(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newTestRequester(func(req *http.Request) (*http.Response, error) {
		atomic.AddInt32(&attempts, 1)
		return nil, req.Context().Err()
	})

	_, err := r.Execute(ctx, routeFor("GET", "/channels/123/messages"), ratelimit.Request{Path: "/channels/123/messages"})
	if err == nil {
		t.Fatal("expected an error for a cancelled context")
	}
	if attempts != 1 {
		t.Fatalf("expected no retry past a cancelled context, got %d attempts", attempts)
	}
}
