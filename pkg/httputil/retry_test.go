package httputil

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

var errTransient = errors.New("connection reset")

func TestRetry(t *testing.T) {
	ctx := context.Background()

	// Success on first try
	calls := 0
	err := Retry(ctx, 3, time.Millisecond, func() error {
		calls++
		return nil
	})
	if err != nil || calls != 1 {
		t.Errorf("success: err=%v calls=%d, want nil/1", err, calls)
	}

	// Non-retryable error stops immediately
	permanent := errors.New("bad request")
	calls = 0
	err = Retry(ctx, 3, time.Millisecond, func() error {
		calls++
		return permanent
	})
	if err != permanent || calls != 1 {
		t.Errorf("permanent: err=%v calls=%d, want %v/1", err, calls, permanent)
	}

	// Retryable error triggers retries until success
	calls = 0
	err = Retry(ctx, 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return &RetryableError{Err: errTransient}
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Errorf("eventual success: err=%v calls=%d, want nil/3", err, calls)
	}

	// Exhausted attempts return the last error
	calls = 0
	err = Retry(ctx, 2, time.Millisecond, func() error {
		calls++
		return &RetryableError{Err: errTransient}
	})
	if !errors.Is(err, errTransient) || calls != 2 {
		t.Errorf("exhausted: err=%v calls=%d, want %v/2", err, calls, errTransient)
	}

	// Zero attempts still runs once
	calls = 0
	_ = Retry(ctx, 0, time.Millisecond, func() error { calls++; return nil })
	if calls != 1 {
		t.Errorf("zero attempts: calls=%d, want 1", calls)
	}
}

func TestRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return &RetryableError{Err: errTransient}
	})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func response(status int, body string, header http.Header) *http.Response {
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(body)), Header: header}
}

func TestCheckResponse(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantErr   bool
		retryable bool
	}{
		{"ok", 200, false, false},
		{"accepted", 202, false, false},
		{"redirect", 302, true, false},
		{"bad request", 400, true, false},
		{"not found", 404, true, false},
		{"rate limited", 429, true, true},
		{"server error", 500, true, true},
		{"bad gateway", 502, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckResponse(response(tt.status, "detail", nil))
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckResponse(%d) = %v, wantErr %v", tt.status, err, tt.wantErr)
			}
			if err == nil {
				return
			}
			if got := isRetryable(err); got != tt.retryable {
				t.Errorf("retryable = %v, want %v", got, tt.retryable)
			}
			var serr *StatusError
			if !errors.As(err, &serr) || serr.StatusCode != tt.status || serr.Body != "detail" {
				t.Errorf("StatusError = %+v, want status %d body %q", serr, tt.status, "detail")
			}
		})
	}
}

func TestCheckResponseRetryAfter(t *testing.T) {
	err := CheckResponse(response(429, "", http.Header{"Retry-After": []string{"7"}}))
	var serr *StatusError
	if !errors.As(err, &serr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if serr.RetryAfter != 7*time.Second {
		t.Errorf("RetryAfter = %v, want 7s", serr.RetryAfter)
	}
	if serr.Error() != "unexpected status 429" {
		t.Errorf("Error() = %q", serr.Error())
	}
}
