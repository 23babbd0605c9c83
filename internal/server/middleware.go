package server

import (
	"context"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/cruderly/wallie/pkg/i18n"
	"github.com/cruderly/wallie/pkg/observability"
)

// requestIDHeader carries the request ID in both directions.
const requestIDHeader = "X-Request-ID"

// requestID reuses a well-formed incoming X-Request-ID or assigns a new UUID.
// The ID is stored where chi's middleware.GetReqID finds it.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// logRequests logs one line per request and reports it to the server hooks.
func logRequests(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			elapsed := time.Since(start)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := routePattern(r)
			observability.Server().OnServed(r.Context(), r.Method, route, status, elapsed)

			fields := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", elapsed.Round(time.Microsecond),
				"id", middleware.GetReqID(r.Context()),
			}
			switch {
			case status >= 500:
				logger.Error("request", fields...)
			case strings.HasPrefix(r.URL.Path, "/static/") || r.URL.Path == "/healthz":
				logger.Debug("request", fields...)
			default:
				logger.Info("request", fields...)
			}
		})
	}
}

// routePattern returns the matched chi pattern, so metrics are labelled by
// "/{locale}/{page}" rather than by every distinct path.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// securityHeaders adds standard security headers to responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers := w.Header()
		headers.Set("X-Content-Type-Options", "nosniff")
		headers.Set("X-Frame-Options", "DENY")
		headers.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		headers.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=(), usb=()")
		headers.Set("Content-Security-Policy", contentSecurityPolicy)
		next.ServeHTTP(w, r)
	})
}

// The reveal module needs 'wasm-unsafe-eval' to compile.
var contentSecurityPolicy = strings.Join([]string{
	"default-src 'self'",
	"base-uri 'self'",
	"object-src 'none'",
	"frame-ancestors 'none'",
	"img-src 'self' data:",
	"font-src 'self' data:",
	"style-src 'self' 'unsafe-inline'",
	"script-src 'self' 'wasm-unsafe-eval'",
	"connect-src 'self'",
	"form-action 'self'",
}, "; ") + ";"

// localeRedirect sends locale-less page requests to a localized URL.
//
//   - "/" goes to "/{negotiated}"
//   - "/faq" goes to "/{negotiated}/faq"
//   - "/de/faq", where "de" is not a supported locale, goes to "/{default}/faq"
//
// API, static, health and metrics paths, and any path with a dot in it,
// pass through untouched.
func localeRedirect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Path
		if skipLocale(p) {
			next.ServeHTTP(w, r)
			return
		}

		seg, rest := splitFirst(p)
		if i18n.Locale(seg).Valid() {
			next.ServeHTTP(w, r)
			return
		}

		var target string
		switch {
		case seg == "":
			target = "/" + i18n.Negotiate(r.Header.Get("Accept-Language")).String()
		case looksLikeLocale(seg):
			target = "/" + i18n.Default.String() + rest
		default:
			target = "/" + i18n.Negotiate(r.Header.Get("Accept-Language")).String() + strings.TrimSuffix(p, "/")
		}
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		w.Header().Add("Vary", "Accept-Language")
		http.Redirect(w, r, target, http.StatusTemporaryRedirect)
	})
}

func skipLocale(p string) bool {
	for _, prefix := range []string{"/static/", "/api/"} {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return p == "/healthz" || p == "/metrics" || p == "/api" || strings.Contains(p, ".")
}

// splitFirst splits "/en/faq" into "en" and "/faq".
func splitFirst(p string) (string, string) {
	p = strings.TrimPrefix(p, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		return p[:i], strings.TrimSuffix(p[i:], "/")
	}
	return p, ""
}

// looksLikeLocale reports whether seg has the shape of a language code.
func looksLikeLocale(seg string) bool {
	if len(seg) != 2 {
		return false
	}
	for _, c := range seg {
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}

const immutable = "public, max-age=31536000, immutable"

// cacheControl returns the Cache-Control value of a static asset.
// Media and fonts never change under the same name; scripts and styles
// are revalidated hourly because their URLs only carry the build version.
func cacheControl(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".mp4", ".webm",
		".jpg", ".jpeg", ".png", ".webp", ".avif", ".svg", ".ico",
		".woff", ".woff2", ".ttf", ".otf":
		return immutable
	case ".css", ".js", ".wasm":
		return "public, max-age=3600"
	default:
		return ""
	}
}

// staticHeaders sets cache headers on assets that exist in fsys, which is
// mounted under /static/. Video also advertises range support so browsers
// can seek.
func staticHeaders(fsys fs.FS, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/static/")
		if _, err := fs.Stat(fsys, name); err == nil {
			if cc := cacheControl(name); cc != "" {
				w.Header().Set("Cache-Control", cc)
			}
			switch strings.ToLower(path.Ext(name)) {
			case ".mp4", ".webm":
				w.Header().Set("Accept-Ranges", "bytes")
			}
		}
		next.ServeHTTP(w, r)
	})
}
