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
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/novachat/nova/ratelimit"
)

const (
	apiVersion    = "v10"
	baseApiUrl    = "https://discord.com/api/" + apiVersion
	maxRetries    = 5
	headerReason  = "X-Audit-Log-Reason"
)

// requester is the HTTP transport collaborator: it owns the underlying
// *http.Client and turns a ratelimit.Request into a ratelimit.Response. It
// implements ratelimit.Executor and knows nothing about buckets, quotas or
// 429s beyond passing their headers through untouched — that accounting now
// lives entirely in the ratelimit package. It does retry on transient
// transport failures and retryable 5xx statuses, since those are a
// transport concern, not a rate-limit one.
type requester struct {
	client               *http.Client
	token                string
	userAgent            string
	logger               Logger
	retryableStatusCodes map[int]struct{}
}

// newRequester creates a new requester with the given bot token and logger.
func newRequester(client *http.Client, token string, logger Logger) *requester {
	if client == nil {
		client = &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,

				MaxIdleConns:        500,
				MaxIdleConnsPerHost: 100,
				MaxConnsPerHost:     200,

				IdleConnTimeout:       120 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,

				DisableKeepAlives: false,
				ForceAttemptHTTP2: true,
			},
		}
	}

	return &requester{
		client:    client,
		token:     "Bot " + token,
		userAgent: "ChatBot (nova)",
		logger:    logger,
		retryableStatusCodes: map[int]struct{}{
			500: {}, 502: {}, 503: {}, 504: {},
		},
	}
}

// Shutdown gracefully closes the underlying HTTP client's idle connections.
//
// It should be called before exiting your application to ensure
// that any idle connections in the HTTP transport are closed cleanly,
// preventing resource leaks and keeping a clean shutdown process.
func (r *requester) Shutdown() {
	if r.client != nil {
		if tr, ok := r.client.Transport.(interface{ CloseIdleConnections() }); ok {
			tr.CloseIdleConnections()
		}
	}
}

// Execute implements ratelimit.Executor. A 429 response is returned as-is —
// including its headers — so the limiter can interpret it; only network
// errors and the configured retryable 5xx statuses are retried here.
func (r *requester) Execute(ctx context.Context, route ratelimit.FormattedRoute, req ratelimit.Request) (*ratelimit.Response, error) {
	method := route.Base.Method
	endpoint := req.Path

	var lastErr error
	for tries := range maxRetries {
		r.logger.Debug(fmt.Sprintf("Attempt #%d %s %s", tries+1, method, endpoint))

		httpReq, err := http.NewRequestWithContext(ctx, method, baseApiUrl+endpoint, bytes.NewReader(req.Body))
		if err != nil {
			return nil, fmt.Errorf("nova: building request for %s %s: %w", method, endpoint, err)
		}

		if req.AuthWithToken {
			httpReq.Header.Set("Authorization", r.token)
		}
		httpReq.Header.Set("User-Agent", r.userAgent)
		if method == "POST" || method == "PUT" || method == "PATCH" {
			httpReq.Header.Set("Content-Type", "application/json")
		}
		httpReq.Header.Set("Accept", "application/json")
		if req.Reason != "" {
			httpReq.Header.Set(headerReason, req.Reason)
		}

		resp, err := r.client.Do(httpReq)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			r.logger.Warn(fmt.Sprintf("HTTP request error for %s %s: %v", method, endpoint, err))
			if !sleepOrDone(ctx, time.Second) {
				return nil, ctx.Err()
			}
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("nova: reading response body for %s %s: %w", method, endpoint, err)
		}

		if _, retry := r.retryableStatusCodes[resp.StatusCode]; retry {
			lastErr = fmt.Errorf("retryable status %d", resp.StatusCode)
			r.logger.Warn(fmt.Sprintf("Retryable status %d for %s %s, retrying...", resp.StatusCode, method, endpoint))
			if !sleepOrDone(ctx, time.Second) {
				return nil, ctx.Err()
			}
			continue
		}

		return &ratelimit.Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
	}

	return nil, fmt.Errorf("nova: max retries reached for %s %s: %w", method, endpoint, lastErr)
}

// sleepOrDone waits for d, returning false early if ctx is cancelled first.
func sleepOrDone(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

var errInvalidToken = errors.New("invalid token")
