package store

import "time"

// Change describes the most recent endpoint change of a source.
type Change struct {
	Added   []string  `json:"added"`
	Removed []string  `json:"removed"`
	At      time.Time `json:"at"`
}

// SourceStatus is the latest known state of one source.
//
// SourceStatus is optimised for JSON serialisation (used by the REST API
// and SSE) and is decoupled from the monitor's internal types.
type SourceStatus struct {
	// Name is the source's display name.
	Name string `json:"name"`

	// URL identifies the source.
	URL string `json:"url"`

	// Result is the outcome of the last check
	// ("pending", "baseline", "unchanged", "changed", "failed").
	Result string `json:"result"`

	// Endpoints is the last successfully extracted endpoint set, sorted.
	// A failed check keeps the previous set.
	Endpoints []string `json:"endpoints"`

	// Fingerprint identifies Endpoints; empty until the first success.
	Fingerprint string `json:"fingerprint"`

	// LastChange is nil until a change has been detected.
	LastChange *Change `json:"last_change"`

	// ResponseTimeMs is the fetch latency of the last check.
	ResponseTimeMs int64 `json:"response_time_ms"`

	// CheckedAt is the timestamp of the last check; zero while pending.
	CheckedAt time.Time `json:"checked_at"`

	// Error contains the error message if the last check failed.
	Error *string `json:"error"`
}

// Store defines the interface for storing and subscribing to source status.
//
// Store implementations must be safe for concurrent access.
type Store interface {
	// Update stores a status and notifies all subscribers.
	// Statuses are keyed by URL, so later updates replace earlier ones.
	Update(status SourceStatus)

	// Get returns the status stored for url.
	Get(url string) (SourceStatus, bool)

	// GetAll returns all stored statuses ordered by name, then URL.
	// The returned slice is a snapshot; modifications do not affect the store.
	GetAll() []SourceStatus

	// Subscribe returns a channel that receives status updates.
	// The returned channel has a buffer; slow consumers may miss updates.
	// Caller must call Unsubscribe when done to prevent resource leaks.
	Subscribe() <-chan SourceStatus

	// Unsubscribe removes a subscription and closes the channel.
	// Safe to call with a channel that was already unsubscribed.
	Unsubscribe(ch <-chan SourceStatus)
}
