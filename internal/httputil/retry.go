// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the remote client.
package httputil

import (
	"io"
	"math"
	"net/http"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// retryable responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// retryable reports whether an HTTP status is worth retrying: rate limiting
// and server-side failures.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// RetryTransport retries requests that fail with HTTP 429 or a 5xx status,
// backing off exponentially between attempts. The delay starts at
// RetryBaseDelay and doubles each attempt.
//
// Requests carrying a non-replayable body (Body set, GetBody nil) are never
// retried; streamed media uploads fall in this category and surface their
// first failure directly. MaxRetries <= 0 disables retrying entirely.
type RetryTransport struct {
	// Base is the underlying transport, http.DefaultTransport when nil.
	Base http.RoundTripper

	// MaxRetries bounds the number of retry attempts after the first try.
	MaxRetries int
}

func (t *RetryTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

// RoundTrip implements http.RoundTripper.
func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	replayable := req.Body == nil || req.GetBody != nil

	for attempt := 0; ; attempt++ {
		resp, err := t.base().RoundTrip(req)
		if err != nil {
			return nil, err
		}

		if !retryable(resp.StatusCode) || !replayable || attempt >= t.MaxRetries {
			return resp, nil
		}

		// Drain and close the body before retrying.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if req.Body != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			req.Body = body
		}

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(backoff):
		}
	}
}
