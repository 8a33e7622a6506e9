// Package notify delivers change messages to external channels.
//
// The main components are:
//
//   - [Notifier]: Capability interface used by the monitor
//   - [Webhook]: Posts messages as {"content": "..."} JSON to a webhook URL
//     (Discord and Slack-compatible incoming webhooks accept this payload)
//   - [Log]: Writes messages to a [log/slog.Logger]
//
// Delivery is best effort. Notifiers report failures as errors and never
// retry; callers decide whether to log them.
package notify
