package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultWebhookTimeout bounds a single webhook delivery.
const DefaultWebhookTimeout = 10 * time.Second

// ErrEmptyWebhookURL is returned by [NewWebhook] when no URL is given.
var ErrEmptyWebhookURL = errors.New("webhook URL cannot be empty")

// payload is the body posted to the webhook.
type payload struct {
	Content string `json:"content"`
}

// Webhook posts messages to an incoming-webhook URL.
type Webhook struct {
	url        string
	timeout    time.Duration
	httpClient *http.Client
}

// NewWebhook creates a [Webhook] notifier. A zero timeout uses
// [DefaultWebhookTimeout].
func NewWebhook(url string, timeout time.Duration) (*Webhook, error) {
	if url == "" {
		return nil, ErrEmptyWebhookURL
	}
	if timeout <= 0 {
		timeout = DefaultWebhookTimeout
	}
	return &Webhook{
		url:        url,
		timeout:    timeout,
		httpClient: &http.Client{},
	}, nil
}

// URL returns the webhook URL.
func (w *Webhook) URL() string {
	return w.url
}

// Notify posts {"content": message}. Any non-2xx response is an error.
func (w *Webhook) Notify(ctx context.Context, message string) error {
	body, err := json.Marshal(payload{Content: message})
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// drain so the connection can be reused
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
