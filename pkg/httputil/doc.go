// Package httputil provides helpers for outgoing HTTP calls, used by the
// lead relay to reach the third-party form backend.
//
// # Retry
//
// [Retry] wraps a call with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// Only errors wrapped in [RetryableError] are retried. [CheckResponse]
// turns a response status into such an error when appropriate:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    defer resp.Body.Close()
//	    return httputil.CheckResponse(resp)
//	})
//
// # Configuration
//
// Default settings:
//
//   - Max attempts: 3
//   - Base backoff: 1 second, doubling each retry
package httputil
