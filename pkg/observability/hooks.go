// Package observability provides hooks for metrics and logging.
//
// Instrumentation is optional and carries no hard dependency on a metrics
// backend. Packages emit events through the registered hooks; main decides
// what receives them.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by libraries, so pkg/leads and
// pkg/site do not import a metrics client.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    m := observability.NewMetrics()
//	    m.Register()
//	    // ... serve m.Handler() at /metrics
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Leads().OnLeadAccepted(ctx, locale)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Server Hooks
// =============================================================================

// ServerHooks receives events about requests served by the site.
type ServerHooks interface {
	// OnServed records a finished request. Route is the matched route
	// pattern, not the raw path, so label cardinality stays bounded.
	OnServed(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Lead Hooks
// =============================================================================

// LeadHooks receives events from lead intake.
type LeadHooks interface {
	// OnLeadAccepted records a lead that passed validation and was stored.
	OnLeadAccepted(ctx context.Context, locale string)

	// OnLeadRejected records a submission refused by validation.
	OnLeadRejected(ctx context.Context, field, reason string)

	// OnRateLimited records a submission refused by the rate limiter.
	OnRateLimited(ctx context.Context)

	// OnLeadRelayed records the outcome of forwarding a lead to the form backend.
	OnLeadRelayed(ctx context.Context, duration time.Duration, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopServerHooks is a no-op implementation of ServerHooks.
type NoopServerHooks struct{}

func (NoopServerHooks) OnServed(context.Context, string, string, int, time.Duration) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopLeadHooks is a no-op implementation of LeadHooks.
type NoopLeadHooks struct{}

func (NoopLeadHooks) OnLeadAccepted(context.Context, string)              {}
func (NoopLeadHooks) OnLeadRejected(context.Context, string, string)      {}
func (NoopLeadHooks) OnRateLimited(context.Context)                       {}
func (NoopLeadHooks) OnLeadRelayed(context.Context, time.Duration, error) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	serverHooks ServerHooks = NoopServerHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	leadHooks   LeadHooks   = NoopLeadHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetServerHooks registers custom server hooks.
// This should be called once at application startup before serving.
func SetServerHooks(h ServerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		serverHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetLeadHooks registers custom lead hooks.
func SetLeadHooks(h LeadHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		leadHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Server returns the registered server hooks.
func Server() ServerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return serverHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Leads returns the registered lead hooks.
func Leads() LeadHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return leadHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	serverHooks = NoopServerHooks{}
	cacheHooks = NoopCacheHooks{}
	leadHooks = NoopLeadHooks{}
	httpHooks = NoopHTTPHooks{}
}
