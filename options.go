package specwatch

import (
	"errors"
	"log/slog"
	"time"

	"github.com/jpalmerr/specwatch/internal/notify"
)

// watcherConfig holds mutable state during Watcher construction.
type watcherConfig struct {
	sources         []Source
	pollingInterval time.Duration
	port            int
	logger          *slog.Logger
	notifiers       []Notifier
	changeCallbacks []func(ChangeEvent)
	rateLimit       float64
	rateBurst       int
}

// Option is a function that configures a [Watcher] during construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
type Option func(*watcherConfig) error

// WithSource adds a single [Source] to the watch list.
//
// Sources are checked in the order they are added. At least one source
// must be configured for [New] to succeed.
func WithSource(s Source) Option {
	return func(cfg *watcherConfig) error {
		cfg.sources = append(cfg.sources, s)
		return nil
	}
}

// WithSources adds multiple [Source] values to the watch list.
//
// Equivalent to calling [WithSource] for each one, for example with the
// result of [NewSourceGrid].
func WithSources(sources ...Source) Option {
	return func(cfg *watcherConfig) error {
		cfg.sources = append(cfg.sources, sources...)
		return nil
	}
}

// WithPollingInterval sets the pause between the end of one check cycle
// and the start of the next. Defaults to 5 minutes.
//
// Returns an error if the duration is shorter than one second.
func WithPollingInterval(d time.Duration) Option {
	return func(cfg *watcherConfig) error {
		if d < time.Second {
			return errors.New("polling interval must be at least 1 second")
		}
		cfg.pollingInterval = d
		return nil
	}
}

// WithPort enables the status API on the given port (see internal/server).
// Port 0, the default, disables it.
//
// Returns an error if the port is outside 0-65535.
func WithPort(port int) Option {
	return func(cfg *watcherConfig) error {
		if port < 0 || port > 65535 {
			return errors.New("port must be between 0 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the Watcher.
// If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *watcherConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithNotifier adds a [Notifier] that receives change and error messages.
//
// Several notifiers may be added; each receives every message. Without
// any notifier, messages are written to the logger.
//
// Returns an error if n is nil.
func WithNotifier(n Notifier) Option {
	return func(cfg *watcherConfig) error {
		if n == nil {
			return errors.New("notifier cannot be nil")
		}
		cfg.notifiers = append(cfg.notifiers, n)
		return nil
	}
}

// WithWebhook posts messages as {"content": "..."} JSON to url, the
// payload accepted by Discord and Slack-compatible incoming webhooks.
// A zero timeout uses 10 seconds.
//
// Returns an error if url is empty.
func WithWebhook(url string, timeout time.Duration) Option {
	return func(cfg *watcherConfig) error {
		hook, err := notify.NewWebhook(url, timeout)
		if err != nil {
			return err
		}
		cfg.notifiers = append(cfg.notifiers, hook)
		return nil
	}
}

// WithChangeCallback registers a function called whenever endpoints are
// added to or removed from a source.
//
// Callbacks run synchronously on the monitor goroutine, after the
// notification attempt, in registration order. They must not block.
// Panics are recovered and logged.
//
// Nil callbacks are silently ignored.
func WithChangeCallback(cb func(ChangeEvent)) Option {
	return func(cfg *watcherConfig) error {
		if cb == nil {
			return nil
		}
		cfg.changeCallbacks = append(cfg.changeCallbacks, cb)
		return nil
	}
}

// WithRateLimit limits fetches to each host to rps requests per second
// with the given burst. Useful when a grid polls many paths on one host.
// Without it fetches are not limited.
//
// Returns an error if rps is not positive or burst is below 1.
func WithRateLimit(rps float64, burst int) Option {
	return func(cfg *watcherConfig) error {
		if rps <= 0 {
			return errors.New("rate limit must be positive")
		}
		if burst < 1 {
			return errors.New("rate limit burst must be at least 1")
		}
		cfg.rateLimit = rps
		cfg.rateBurst = burst
		return nil
	}
}
