package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cruderly/wallie/pkg/buildinfo"
	"github.com/cruderly/wallie/pkg/errors"
	"github.com/cruderly/wallie/pkg/httputil"
	"github.com/cruderly/wallie/pkg/observability"
)

const relayTimeout = 10 * time.Second

// Relay forwards leads to the form backend as JSON POST requests.
// Network failures, 429 and 5xx responses are retried with exponential
// backoff; anything else fails at once.
type Relay struct {
	endpoint string
	host     string
	path     string
	http     *http.Client
	headers  map[string]string
	attempts int
	delay    time.Duration
}

// RelayOption customizes a Relay.
type RelayOption func(*Relay)

// WithHTTPClient replaces the default client (10 second timeout).
func WithHTTPClient(c *http.Client) RelayOption {
	return func(r *Relay) { r.http = c }
}

// WithRetry sets the number of attempts and the initial backoff delay.
func WithRetry(attempts int, delay time.Duration) RelayOption {
	return func(r *Relay) {
		r.attempts = attempts
		r.delay = delay
	}
}

// WithHeader adds a header to every request, e.g. an API key.
func WithHeader(key, value string) RelayOption {
	return func(r *Relay) { r.headers[key] = value }
}

// NewRelay creates a Relay posting to endpoint.
func NewRelay(endpoint string, opts ...RelayOption) (*Relay, error) {
	if err := errors.ValidateEndpoint(endpoint); err != nil {
		return nil, err
	}
	u, _ := url.Parse(endpoint)
	r := &Relay{
		endpoint: endpoint,
		host:     u.Host,
		path:     u.Path,
		http:     &http.Client{Timeout: relayTimeout},
		headers:  map[string]string{"User-Agent": buildinfo.UserAgent()},
		attempts: 3,
		delay:    time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Endpoint returns the backend URL.
func (r *Relay) Endpoint() string { return r.endpoint }

// Send posts lead to the backend. Failures after the last attempt are
// returned as UPSTREAM_ERROR.
func (r *Relay) Send(ctx context.Context, lead *Lead) error {
	body, err := json.Marshal(lead)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode lead")
	}

	err = httputil.Retry(ctx, r.attempts, r.delay, func() error {
		return r.post(ctx, body)
	})
	if err != nil {
		if ctx.Err() != nil {
			return errors.Wrap(errors.ErrCodeTimeout, err, "relay lead %s", lead.ID)
		}
		return errors.Wrap(errors.ErrCodeUpstream, err, "relay lead %s", lead.ID)
	}
	return nil
}

func (r *Relay) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, r.host, r.path)
	start := time.Now()

	resp, err := r.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, r.host, r.path, err)
		return &httputil.RetryableError{Err: fmt.Errorf("post: %w", err)}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, r.host, r.path, resp.StatusCode, time.Since(start))

	return httputil.CheckResponse(resp)
}
