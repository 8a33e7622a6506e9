// Package fake provides testify mocks of the fetch and notify capabilities
// for use in unit tests.
package fake

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/jpalmerr/specwatch/internal/poller"
)

// Fetcher is a fake page fetcher.
type Fetcher struct {
	mock.Mock
}

// Fetch implements monitor.Fetcher.
func (f *Fetcher) Fetch(ctx context.Context, method, url string, headers map[string]string, timeout time.Duration) poller.Response {
	args := f.Called(ctx, method, url, headers, timeout)
	if resp, ok := args.Get(0).(poller.Response); ok {
		return resp
	}

	return poller.Response{}
}

// Notifier is a fake notifier.
type Notifier struct {
	mock.Mock
}

// Notify implements notify.Notifier.
func (n *Notifier) Notify(ctx context.Context, message string) error {
	args := n.Called(ctx, message)

	return args.Error(0)
}

// Page returns a successful response carrying body.
func Page(body string) poller.Response {
	return poller.Response{Body: []byte(body), StatusCode: 200, Latency: time.Millisecond}
}

// Status returns a response with the given status and an empty body.
func Status(code int) poller.Response {
	return poller.Response{StatusCode: code, Latency: time.Millisecond}
}

// Failure returns a response carrying a transport error.
func Failure(err error) poller.Response {
	return poller.Response{Error: err, Latency: time.Millisecond}
}
