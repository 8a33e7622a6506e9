package specwatch

import (
	"context"
	"time"
)

// Notifier delivers a text message to an external channel such as a chat
// webhook. Implementations should return an error for failed deliveries;
// the watcher logs it and never retries.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// ChangeEvent describes endpoints added to or removed from a source.
type ChangeEvent struct {
	// SourceName is the source's display name.
	SourceName string

	// URL identifies the source.
	URL string

	// Added and Removed list endpoint descriptors such as
	// "GET /coins/{id} (path:id)", sorted lexicographically.
	Added   []string
	Removed []string

	// Report is the human-readable diff sent to notifiers.
	Report string

	// Fingerprint identifies the new endpoint set.
	Fingerprint string

	// DetectedAt is when the check that found the change completed.
	DetectedAt time.Time

	// NotifyError is the delivery error, if the notification failed.
	NotifyError error
}
