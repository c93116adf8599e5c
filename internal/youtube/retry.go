package youtube

import (
	"context"
	"errors"
	"math"
	"net"
	"net/http"
	"time"
)

// RetryConfig controls backoff for transcript requests.
type RetryConfig struct {
	MaxRetries  int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryConfig is used by NewFetcher.
var DefaultRetryConfig = RetryConfig{
	MaxRetries:  3,
	InitialWait: 500 * time.Millisecond,
	MaxWait:     10 * time.Second,
	Multiplier:  2.0,
}

type statusError struct {
	StatusCode int
}

func (e *statusError) Error() string {
	return http.StatusText(e.StatusCode)
}

// doWithRetry runs fn until it returns a response with a non-transient
// status, a non-retryable error, or the retry budget is spent.
func doWithRetry(ctx context.Context, rc RetryConfig, fn func() (*http.Response, error)) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt <= rc.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := fn()
		if err == nil {
			if !retryableStatus(resp.StatusCode) {
				return resp, nil
			}
			resp.Body.Close()
			err = &statusError{StatusCode: resp.StatusCode}
		}
		lastErr = err

		if !retryable(err) || attempt == rc.MaxRetries {
			break
		}

		wait := time.Duration(float64(rc.InitialWait) * math.Pow(rc.Multiplier, float64(attempt)))
		if wait > rc.MaxWait {
			wait = rc.MaxWait
		}
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}
