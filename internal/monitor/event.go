package monitor

import (
	"time"

	"github.com/jpalmerr/specwatch/internal/endpoint"
)

// EventKind classifies the outcome of one source check.
type EventKind string

const (
	// EventBaseline means the source had no entry and one was recorded
	// without notification.
	EventBaseline EventKind = "baseline"

	// EventUnchanged means the fingerprint matched the last known one.
	EventUnchanged EventKind = "unchanged"

	// EventChanged means endpoints were added or removed.
	EventChanged EventKind = "changed"

	// EventFailed means the fetch or extraction produced no endpoint set.
	EventFailed EventKind = "failed"
)

// Event describes the outcome of checking one source.
type Event struct {
	Kind EventKind

	// Source is the source's display name; URL is its identity.
	Source string
	URL    string

	// Endpoints and Fingerprint are set for every kind except EventFailed.
	Endpoints   endpoint.Set
	Fingerprint string

	// Report is set for EventChanged.
	Report endpoint.Report

	// Err is set for EventFailed.
	Err error

	Latency   time.Duration
	CheckedAt time.Time

	// Notified reports whether a change message was delivered; NotifyErr
	// holds the delivery error otherwise.
	Notified  bool
	NotifyErr error
}
