package specwatch

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/jpalmerr/specwatch/internal/monitor"
	"github.com/jpalmerr/specwatch/internal/notify"
	"github.com/jpalmerr/specwatch/internal/poller"
)

// Snapshot is the endpoint set of one source at one point in time.
type Snapshot struct {
	SourceName string

	URL string

	// Endpoints is sorted lexicographically.
	Endpoints []string

	// Fingerprint is the hex SHA-256 of the sorted endpoints joined by
	// newlines; equal sets always share a fingerprint.
	Fingerprint string

	Latency   time.Duration
	CheckedAt time.Time
}

// TakeSnapshot fetches src once and returns its endpoint set, using the
// same fetch and extraction path as [Watcher]. Nothing is notified.
//
// Returns [ErrNoSpec] when the page holds no specification document, or
// the fetch error.
func TakeSnapshot(ctx context.Context, src Source) (Snapshot, error) {
	client := poller.NewClient()
	defer client.Close()

	silent := slog.New(slog.NewTextHandler(io.Discard, nil))
	discard := notify.Func(func(context.Context, string) error { return nil })

	mon := monitor.New([]monitor.Source{toMonitorSource(src)}, 0, client, discard, silent)

	var result *monitor.Event
	mon.Observe(func(ev monitor.Event) { result = &ev })
	mon.Bootstrap(ctx)

	if result == nil {
		if err := ctx.Err(); err != nil {
			return Snapshot{}, err
		}
		return Snapshot{}, ErrNoSpec
	}
	if result.Err != nil {
		return Snapshot{}, result.Err
	}

	return Snapshot{
		SourceName:  result.Source,
		URL:         result.URL,
		Endpoints:   result.Endpoints.Sorted(),
		Fingerprint: result.Fingerprint,
		Latency:     result.Latency,
		CheckedAt:   result.CheckedAt,
	}, nil
}
