package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jpalmerr/specwatch/internal/endpoint"
	"github.com/jpalmerr/specwatch/internal/notify"
	"github.com/jpalmerr/specwatch/internal/poller"
	"github.com/jpalmerr/specwatch/internal/scrape"
)

var (
	// ErrNoSpec is reported when a page was fetched but no specification
	// document could be extracted from it.
	ErrNoSpec = errors.New("no specification document found")

	// ErrUnexpectedStatus is reported for fetch responses other than 200 OK.
	ErrUnexpectedStatus = errors.New("unexpected status")
)

// Fetcher retrieves a page. [poller.Client] implements it.
type Fetcher interface {
	Fetch(ctx context.Context, method, url string, headers map[string]string, timeout time.Duration) poller.Response
}

// Source is one monitored page.
type Source struct {
	// Name is used in logs and metrics. Defaults to URL.
	Name string

	// URL identifies the source.
	URL string

	Headers map[string]string

	// Timeout bounds a single fetch; zero uses the fetcher's default.
	Timeout time.Duration

	// Extractor pulls the specification document out of the body.
	// Defaults to [scrape.SwaggerUIInit].
	Extractor scrape.Extractor
}

func (s Source) label() string {
	if s.Name != "" {
		return s.Name
	}
	return s.URL
}

// Monitor checks sources sequentially and notifies on endpoint changes.
type Monitor struct {
	sources  []Source
	interval time.Duration
	fetcher  Fetcher
	notifier notify.Notifier
	logger   *slog.Logger
	now      func() time.Time

	mu        sync.RWMutex
	observers []func(Event)
}

// New creates a [Monitor].
//
// Sources are checked in the given order. A nil notifier logs messages
// instead; a nil logger uses slog.Default().
func New(sources []Source, interval time.Duration, fetcher Fetcher, notifier notify.Notifier, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = notify.NewLog(logger)
	}

	srcs := make([]Source, len(sources))
	copy(srcs, sources)
	for i := range srcs {
		if srcs[i].Extractor == nil {
			srcs[i].Extractor = scrape.SwaggerUIInit()
		}
	}

	return &Monitor{
		sources:  srcs,
		interval: interval,
		fetcher:  fetcher,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Observe registers fn to receive every [Event]. Observers are called
// synchronously on the monitor goroutine; a panicking observer is logged
// and skipped.
func (m *Monitor) Observe(fn func(Event)) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	m.observers = append(m.observers, fn)
	m.mu.Unlock()
}

// Run checks every source immediately, then again after each interval,
// until ctx is cancelled or a fatal error occurs.
//
// Cancellation returns nil. A fatal error triggers one notification built
// by [FatalMessage] and is returned.
func (m *Monitor) Run(ctx context.Context) error {
	var state State

	sched := poller.NewScheduler(m.interval,
		func(ctx context.Context) error {
			state = m.Bootstrap(ctx)
			return nil
		},
		func(ctx context.Context) error {
			next, err := m.Cycle(ctx, state)
			state = next
			return err
		},
		m.logger,
	)

	sched.Start(ctx)
	err := <-sched.Done()
	sched.Stop()

	if err == nil {
		return nil
	}

	m.logger.Error("monitor stopped", "error", err)
	if nerr := m.notifier.Notify(context.WithoutCancel(ctx), FatalMessage(err)); nerr != nil {
		m.logger.Warn("failed to deliver error notification", "error", nerr)
	}
	return err
}

// Bootstrap checks every source once and records the endpoint set of each
// one that succeeds. Failed sources have no entry and get a silent baseline
// on their first later success.
func (m *Monitor) Bootstrap(ctx context.Context) State {
	state := make(State, len(m.sources))

	for _, src := range m.sources {
		if ctx.Err() != nil {
			break
		}

		set, latency, err := m.check(ctx, src)
		checkedAt := m.now()
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			m.fail(src, err, latency, checkedAt)
			continue
		}

		fp := set.Fingerprint()
		state[src.URL] = Entry{Endpoints: set, Fingerprint: fp, CheckedAt: checkedAt}

		m.logger.Info("baseline recorded",
			"source", src.label(),
			"url", src.URL,
			"endpoint_count", set.Len(),
			"fingerprint", fp,
		)
		m.emit(Event{
			Kind:        EventBaseline,
			Source:      src.label(),
			URL:         src.URL,
			Endpoints:   set,
			Fingerprint: fp,
			Latency:     latency,
			CheckedAt:   checkedAt,
		})
	}

	return state
}

// Cycle checks every source against prev and returns the updated state.
// prev is not modified.
//
// The returned error is non-nil only when ctx is cancelled mid-cycle.
func (m *Monitor) Cycle(ctx context.Context, prev State) (State, error) {
	next := prev.Clone()

	for _, src := range m.sources {
		if err := ctx.Err(); err != nil {
			return next, err
		}

		set, latency, err := m.check(ctx, src)
		checkedAt := m.now()
		if err != nil {
			if ctx.Err() != nil {
				return next, ctx.Err()
			}
			m.fail(src, err, latency, checkedAt)
			continue
		}

		fp := set.Fingerprint()
		ev := Event{
			Source:      src.label(),
			URL:         src.URL,
			Endpoints:   set,
			Fingerprint: fp,
			Latency:     latency,
			CheckedAt:   checkedAt,
		}

		entry, known := next[src.URL]
		switch {
		case !known:
			next[src.URL] = Entry{Endpoints: set, Fingerprint: fp, CheckedAt: checkedAt}
			ev.Kind = EventBaseline
			m.logger.Info("late baseline recorded",
				"source", src.label(),
				"url", src.URL,
				"endpoint_count", set.Len(),
				"fingerprint", fp,
			)

		case entry.Fingerprint == fp:
			entry.CheckedAt = checkedAt
			next[src.URL] = entry
			ev.Kind = EventUnchanged
			m.logger.Debug("no changes",
				"source", src.label(),
				"url", src.URL,
				"latency_ms", latency.Milliseconds(),
			)

		default:
			next[src.URL] = Entry{Endpoints: set, Fingerprint: fp, CheckedAt: checkedAt, ChangedAt: checkedAt}

			report, changed := endpoint.Diff(entry.Endpoints, set)
			if !changed {
				ev.Kind = EventUnchanged
				break
			}

			ev.Kind = EventChanged
			ev.Report = report
			m.logger.Info("endpoints changed",
				"source", src.label(),
				"url", src.URL,
				"added", len(report.Added),
				"removed", len(report.Removed),
				"fingerprint", fp,
			)

			if nerr := m.notifier.Notify(ctx, ChangeMessage(src.URL, report)); nerr != nil {
				ev.NotifyErr = nerr
				m.logger.Warn("failed to deliver change notification",
					"source", src.label(),
					"url", src.URL,
					"error", nerr,
				)
			} else {
				ev.Notified = true
			}
		}

		m.emit(ev)
	}

	return next, nil
}

// check fetches one source and builds its endpoint set.
func (m *Monitor) check(ctx context.Context, src Source) (endpoint.Set, time.Duration, error) {
	resp := m.fetcher.Fetch(ctx, http.MethodGet, src.URL, src.Headers, src.Timeout)
	if resp.Error != nil {
		return nil, resp.Latency, resp.Error
	}
	if !resp.OK() {
		return nil, resp.Latency, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	// an empty document carries no endpoints to compare against
	doc, ok := m.extract(src, resp.Body)
	if !ok || scrape.IsEmpty(doc) {
		return nil, resp.Latency, ErrNoSpec
	}
	return endpoint.Build(doc), resp.Latency, nil
}

// extract runs the source's extractor. A panicking extractor counts as
// "no document" for that source only.
func (m *Monitor) extract(src Source, body []byte) (doc json.RawMessage, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("extractor panic",
				"source", src.label(),
				"url", src.URL,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
			doc, ok = nil, false
		}
	}()
	return src.Extractor(body)
}

func (m *Monitor) fail(src Source, err error, latency time.Duration, checkedAt time.Time) {
	m.logger.Warn("check failed",
		"source", src.label(),
		"url", src.URL,
		"error", err,
		"latency_ms", latency.Milliseconds(),
	)
	m.emit(Event{
		Kind:      EventFailed,
		Source:    src.label(),
		URL:       src.URL,
		Err:       err,
		Latency:   latency,
		CheckedAt: checkedAt,
	})
}

// emit delivers ev to every observer, recovering observer panics.
func (m *Monitor) emit(ev Event) {
	m.mu.RLock()
	observers := m.observers
	m.mu.RUnlock()

	for _, fn := range observers {
		m.safeObserve(fn, ev)
	}
}

func (m *Monitor) safeObserve(fn func(Event), ev Event) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("observer panic",
				"correlation_id", uuid.NewString(),
				"source", ev.Source,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	fn(ev)
}
