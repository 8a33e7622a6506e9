// Package monitor runs the change-detection pipeline for a fixed list of
// sources.
//
// Each check fetches a source, extracts its specification document, builds
// the endpoint set and compares its fingerprint with the last known one.
// State is an explicit [State] value threaded through [Monitor.Bootstrap]
// and [Monitor.Cycle]; [Monitor.Run] drives both on a
// [github.com/jpalmerr/specwatch/internal/poller.Scheduler].
//
// Per-source failures (transport errors, non-200 responses, pages without a
// specification) are logged and reported as [EventFailed]; they never stop
// the loop. A panic outside those boundaries is fatal: one message built by
// [FatalMessage] is sent and Run returns the error.
package monitor
