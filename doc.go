// Package specwatch watches third-party API documentation pages and reports
// when operations are added or removed.
//
// Many HTTP APIs publish their OpenAPI document only through a generated
// Swagger UI page (swagger-ui-init.js) and offer no versioned change feed.
// specwatch polls such pages on a fixed interval, extracts the declared
// operations as endpoint descriptors such as "GET /coins/{id} (path:id)",
// and sends a diff to a webhook when the set changes:
//
//	Changes detected at https://api.example.com/docs/swagger-ui-init.js!
//	```diff
//	NEW ENDPOINTS:
//	+ POST /orders
//	```
//
// # Quick Start
//
//	src, _ := specwatch.NewSource("https://api.example.com/docs/swagger-ui-init.js")
//	w, _ := specwatch.New(
//	    specwatch.WithSource(src),
//	    specwatch.WithWebhook("https://discord.com/api/webhooks/...", 0),
//	)
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	w.Start(ctx) // blocks until ctx is cancelled
//
// # Behaviour
//
// Sources are checked one at a time in configured order: once at start
// (the baseline), then after every polling interval. A source that cannot
// be fetched or parsed is logged and skipped for that cycle; the first
// successful check after a failed start records a baseline silently.
// Nothing is persisted, so every run starts with a fresh baseline.
//
// # Extractors
//
// A [SpecExtractor] finds the specification document in a fetched page:
//
//   - [SwaggerUIExtractor]: the swaggerDoc member of swagger-ui-init.js (default)
//   - [AssignmentExtractor]: another variable or member name
//   - [JSONDocumentExtractor]: raw OpenAPI JSON such as /api-json
//   - [FirstMatch]: tries several extractors in order
//
// # Architecture
//
// specwatch consists of several internal packages (under internal/):
//
//   - internal/scrape: locating and leniently parsing the embedded literal
//   - internal/endpoint: endpoint sets, fingerprints and diff reports
//   - internal/monitor: the bootstrap and cycle pipeline with explicit state
//   - internal/poller: HTTP fetching and the interval scheduler
//   - internal/notify: webhook and log notifiers
//   - internal/store, internal/server, internal/metrics: the optional status API
//
// The internal packages are not part of the public API and may change
// without notice.
package specwatch
