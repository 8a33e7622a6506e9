package notify

import (
	"context"
	"errors"
	"log/slog"
)

// Notifier delivers a text message to an external channel.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Func adapts an ordinary function to the [Notifier] interface.
type Func func(ctx context.Context, message string) error

// Notify calls f(ctx, message).
func (f Func) Notify(ctx context.Context, message string) error {
	return f(ctx, message)
}

// Log writes every message to a logger at INFO level.
type Log struct {
	logger *slog.Logger
}

// NewLog creates a [Log] notifier. A nil logger uses slog.Default().
func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger}
}

// Notify logs the message. It never fails.
func (l *Log) Notify(ctx context.Context, message string) error {
	l.logger.InfoContext(ctx, "notification", "message", message)
	return nil
}

// Multi fans a message out to several notifiers.
type Multi []Notifier

// Notify delivers the message to every notifier, even when some fail, and
// returns the joined errors.
func (m Multi) Notify(ctx context.Context, message string) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
