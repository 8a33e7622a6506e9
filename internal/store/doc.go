// Package store provides storage and pub/sub functionality for source status.
//
// This package is internal to specwatch and keeps the latest known state of
// every monitored source in memory. It implements a publish-subscribe
// pattern so the status API can stream updates to connected clients.
//
// The main components are:
//
//   - [Store]: Interface defining storage and subscription operations
//   - [MemoryStore]: In-memory implementation of Store with pub/sub
//   - [SourceStatus]: Storage representation of a source's last check
//
// Nothing is persisted; the store starts empty on every run.
package store
