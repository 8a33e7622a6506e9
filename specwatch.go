package specwatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jpalmerr/specwatch/internal/metrics"
	"github.com/jpalmerr/specwatch/internal/monitor"
	"github.com/jpalmerr/specwatch/internal/notify"
	"github.com/jpalmerr/specwatch/internal/poller"
	"github.com/jpalmerr/specwatch/internal/scrape"
	"github.com/jpalmerr/specwatch/internal/server"
	"github.com/jpalmerr/specwatch/internal/store"
)

const defaultPollingInterval = 5 * time.Minute

// resultPending marks sources that have not been checked yet.
const resultPending = "pending"

// ErrNoSpec is reported when a page was fetched but held no specification
// document the source's extractor could find.
var ErrNoSpec = monitor.ErrNoSpec

// Watcher polls API specification pages and reports endpoint changes.
//
// Watcher is created using [New] with functional options and started with
// [Watcher.Start]. The typical lifecycle is:
//
//	src, _ := specwatch.NewSource("https://api.example.com/docs/swagger-ui-init.js")
//	w, err := specwatch.New(
//	    specwatch.WithSource(src),
//	    specwatch.WithWebhook(os.Getenv("WEBHOOK_URL"), 0),
//	)
//	if err != nil {
//	    slog.Error("failed to create watcher", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	err = w.Start(ctx) // blocks until cancelled or a fatal error
type Watcher struct {
	sources         []Source
	pollingInterval time.Duration
	port            int
	logger          *slog.Logger
	notifier        notify.Notifier
	changeCallbacks []func(ChangeEvent)
	rateLimit       float64
	rateBurst       int
}

// New creates a new [Watcher] with the given options.
//
// At least one source must be configured via [WithSource] or [WithSources],
// and source URLs must be unique. Other options have defaults:
//   - Polling interval: 5 minutes
//   - Port: 0 (status API disabled)
//   - Notifier: messages are logged
func New(opts ...Option) (*Watcher, error) {
	cfg := &watcherConfig{
		sources:         []Source{},
		pollingInterval: defaultPollingInterval,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if len(cfg.sources) == 0 {
		return nil, errors.New("at least one source is required")
	}

	// the URL is the identity of a source in monitor state
	seen := make(map[string]bool, len(cfg.sources))
	for _, src := range cfg.sources {
		if src.url == "" {
			return nil, errors.New("sources must be created with NewSource")
		}
		if seen[src.url] {
			return nil, fmt.Errorf("duplicate source URL: %q", src.url)
		}
		seen[src.url] = true
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	var notifier notify.Notifier
	switch len(cfg.notifiers) {
	case 0:
		notifier = notify.NewLog(logger)
	case 1:
		notifier = cfg.notifiers[0]
	default:
		multi := make(notify.Multi, len(cfg.notifiers))
		for i, n := range cfg.notifiers {
			multi[i] = n
		}
		notifier = multi
	}

	return &Watcher{
		sources:         cfg.sources,
		pollingInterval: cfg.pollingInterval,
		port:            cfg.port,
		logger:          logger,
		notifier:        notifier,
		changeCallbacks: cfg.changeCallbacks,
		rateLimit:       cfg.rateLimit,
		rateBurst:       cfg.rateBurst,
	}, nil
}

// Start checks every source immediately, then again after each polling
// interval, until ctx is cancelled.
//
// Start is a blocking call. During execution:
//
//   - Sources are checked one at a time, in configured order
//   - Added or removed endpoints are sent to the notifiers and change callbacks
//   - The status API is served when a port is configured
//
// Returns nil on cancellation. If the loop stops on an unexpected error,
// one error message is sent to the notifiers and the error is returned.
// Returns an error if the status API fails to start.
func (w *Watcher) Start(ctx context.Context) error {
	w.logger.Info("specwatch starting",
		"source_count", len(w.sources),
		"interval", w.pollingInterval.String(),
	)

	// check if context already cancelled
	if ctx.Err() != nil {
		return nil
	}

	var clientOpts []poller.ClientOption
	if w.rateLimit > 0 {
		clientOpts = append(clientOpts, poller.WithRateLimit(w.rateLimit, w.rateBurst))
	}
	client := poller.NewClient(clientOpts...)
	defer client.Close()

	m := metrics.New()
	statusStore := store.NewMemoryStore()
	for _, src := range w.sources {
		statusStore.Update(store.SourceStatus{Name: src.name, URL: src.url, Result: resultPending})
	}

	// count every delivery attempt, including the final error message
	notifier := notify.Func(func(ctx context.Context, message string) error {
		err := w.notifier.Notify(ctx, message)
		m.ObserveNotification(err)
		return err
	})

	mon := monitor.New(w.monitorSources(), w.pollingInterval, client, notifier, w.logger)
	mon.Observe(recordEvent(statusStore, m))
	if len(w.changeCallbacks) > 0 {
		mon.Observe(w.dispatchChanges)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if w.port > 0 {
		httpServer := server.NewServer(statusStore, w.port, m.Handler(), w.logger)
		if err := httpServer.Start(runCtx); err != nil {
			return fmt.Errorf("failed to start status server: %w", err)
		}
		w.logger.Info("status API available", "url", fmt.Sprintf("http://localhost:%d/api/sources", w.port))
	}

	if err := mon.Run(runCtx); err != nil {
		return fmt.Errorf("monitor stopped: %w", err)
	}

	w.logger.Info("specwatch stopped")
	return nil
}

// Sources returns a copy of the configured sources.
func (w *Watcher) Sources() []Source {
	cp := make([]Source, len(w.sources))
	copy(cp, w.sources)
	return cp
}

// Port returns the status API port, 0 when disabled.
func (w *Watcher) Port() int {
	return w.port
}

// PollingInterval returns the pause between check cycles.
func (w *Watcher) PollingInterval() time.Duration {
	return w.pollingInterval
}

// monitorSources converts the configured sources for the monitor.
func (w *Watcher) monitorSources() []monitor.Source {
	out := make([]monitor.Source, len(w.sources))
	for i, src := range w.sources {
		out[i] = toMonitorSource(src)
	}
	return out
}

func toMonitorSource(src Source) monitor.Source {
	ms := monitor.Source{
		Name:    src.name,
		URL:     src.url,
		Headers: copyMap(src.headers),
		Timeout: src.timeout,
	}
	if src.extractor != nil {
		ms.Extractor = scrape.Extractor(src.extractor)
	}
	return ms
}

// dispatchChanges forwards change events to the registered callbacks.
func (w *Watcher) dispatchChanges(ev monitor.Event) {
	if ev.Kind != monitor.EventChanged {
		return
	}

	change := ChangeEvent{
		SourceName:  ev.Source,
		URL:         ev.URL,
		Added:       append([]string(nil), ev.Report.Added...),
		Removed:     append([]string(nil), ev.Report.Removed...),
		Report:      ev.Report.String(),
		Fingerprint: ev.Fingerprint,
		DetectedAt:  ev.CheckedAt,
		NotifyError: ev.NotifyErr,
	}
	for _, cb := range w.changeCallbacks {
		invokeCallbackSafe(cb, change, w.logger)
	}
}

// recordEvent keeps the status store and metrics in step with the monitor.
func recordEvent(st store.Store, m *metrics.Metrics) func(monitor.Event) {
	return func(ev monitor.Event) {
		m.ObserveCheck(ev.Source, ev.URL, string(ev.Kind), ev.Latency)

		// a failed check keeps the last known endpoints
		status, _ := st.Get(ev.URL)
		status.Name = ev.Source
		status.URL = ev.URL
		status.Result = string(ev.Kind)
		status.ResponseTimeMs = ev.Latency.Milliseconds()
		status.CheckedAt = ev.CheckedAt
		status.Error = nil

		if ev.Kind == monitor.EventFailed {
			msg := ev.Err.Error()
			status.Error = &msg
		} else {
			status.Endpoints = ev.Endpoints.Sorted()
			status.Fingerprint = ev.Fingerprint
			m.SetEndpoints(ev.Source, ev.URL, ev.Endpoints.Len())
		}

		if ev.Kind == monitor.EventChanged {
			status.LastChange = &store.Change{
				Added:   ev.Report.Added,
				Removed: ev.Report.Removed,
				At:      ev.CheckedAt,
			}
			m.ObserveChange(ev.Source, ev.URL, len(ev.Report.Added), len(ev.Report.Removed), ev.CheckedAt)
		}

		st.Update(status)
	}
}

// invokeCallbackSafe calls a change callback with panic recovery.
// Panics are logged but do not propagate.
func invokeCallbackSafe(cb func(ChangeEvent), ev ChangeEvent, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("change callback panicked",
				"panic", r,
				"source", ev.SourceName,
			)
		}
	}()
	cb(ev)
}
