// Package scrape extracts API specification documents from fetched pages.
//
// Swagger UI pages do not serve their OpenAPI document directly; the
// generated swagger-ui-init.js script embeds it in a JavaScript object
// literal. This package locates that literal, repairs it into strict JSON
// and returns the nested document.
//
// Extraction is best-effort: a missing assignment, an unparseable literal and
// an absent document member all produce the same "not found" result. The
// caller cannot tell them apart.
package scrape
