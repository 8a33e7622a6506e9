// Package poller provides HTTP fetching and interval scheduling for specwatch.
//
// This package is internal to specwatch. It knows nothing about API
// specifications; it fetches pages and runs tasks on a fixed cadence.
//
// The main components are:
//
//   - [Client]: HTTP client wrapper with browser-like default headers,
//     per-request timeouts, body size limits and optional per-host rate limiting
//   - [Scheduler]: Runs a bootstrap task once and a cycle task after every
//     interval, on a single goroutine, with one fatal-error signal
//   - [Response]: Result of a single fetch
//
// Users of the specwatch library should not need to interact with this
// package directly. Configuration is done through the main specwatch package.
package poller
