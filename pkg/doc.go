// Package pkg provides the libraries behind the Wallie site.
//
// # Overview
//
// Wallie is the marketing site of a vertical wall printing studio. The pkg
// directory is organized into three areas:
//
//  1. Content - [site] renders the localized pages from embedded templates,
//     [i18n] resolves the dictionaries and negotiates locales, and [reveal]
//     is the before/after slider state machine shared by the browser and the
//     terminal preview.
//  2. Leads - [leads] validates, rate limits, archives and relays quote
//     requests to the form backend.
//  3. Infrastructure - [cache] for rendered pages, [httputil] for retrying
//     outgoing requests, [observability] for hooks and Prometheus metrics,
//     [errors] for coded errors, and [buildinfo] for version data.
//
// # Architecture
//
// The flow of a page request:
//
//	GET /faq
//	    ↓
//	locale redirect (Accept-Language) → /en/faq
//	    ↓
//	[site] Render (cache hit, or template + [i18n] dictionary)
//	    ↓
//	HTML with the slider markup, driven in the browser by [reveal]
//
// The flow of a lead:
//
//	POST /api/leads
//	    ↓
//	[leads] Form.Validate → Limiter.Allow → Store.Save → Relay.Send
//	    ↓
//	202, 400, 429 or 502
//
// # Quick Start
//
// Render one page:
//
//	catalog, _ := i18n.Embedded()
//	s, _ := site.New(catalog, site.Options{BaseURL: "https://wallie.rs"})
//	html, err := s.Render(ctx, i18n.English, site.FAQ)
//
// Take a lead:
//
//	svc := leads.NewService(leads.NewMemoryStore(), leads.NewLocalLimiter(5, time.Minute), relay, logger)
//	lead, err := svc.Submit(ctx, clientIP, form)
//
// The command-line entry point is cmd/wallie; the browser slider is built
// from cmd/revealwasm.
package pkg
