package store

import (
	"sort"
	"sync"
)

// subscriberBuffer is the per-subscriber channel capacity.
const subscriberBuffer = 100

// MemoryStore is an in-memory implementation of [Store].
//
// Subscribers receive updates via buffered channels. Updates are sent
// non-blocking; if a subscriber's buffer is full, the update is dropped
// for that subscriber rather than blocking the monitor.
type MemoryStore struct {
	mu          sync.RWMutex
	statuses    map[string]SourceStatus
	subscribers map[chan SourceStatus]struct{}
	subMu       sync.RWMutex
}

// NewMemoryStore creates a new in-memory [Store] implementation.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		statuses:    make(map[string]SourceStatus),
		subscribers: make(map[chan SourceStatus]struct{}),
	}
}

// Update stores status under its URL and notifies all subscribers.
func (m *MemoryStore) Update(status SourceStatus) {
	status = clone(status)

	m.mu.Lock()
	m.statuses[status.URL] = status
	m.mu.Unlock()

	m.notifySubscribers(status)
}

// Get returns a copy of the status stored for url.
func (m *MemoryStore) Get(url string) (SourceStatus, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status, ok := m.statuses[url]
	if !ok {
		return SourceStatus{}, false
	}
	return clone(status), true
}

// GetAll returns a snapshot of all stored statuses, sorted by name and URL.
func (m *MemoryStore) GetAll() []SourceStatus {
	m.mu.RLock()
	results := make([]SourceStatus, 0, len(m.statuses))
	for _, status := range m.statuses {
		results = append(results, clone(status))
	}
	m.mu.RUnlock()

	sort.Slice(results, func(i, j int) bool {
		if results[i].Name != results[j].Name {
			return results[i].Name < results[j].Name
		}
		return results[i].URL < results[j].URL
	})
	return results
}

// Subscribe creates a new subscription and returns a channel for receiving updates.
//
// Caller must call [MemoryStore.Unsubscribe] when done to prevent resource leaks.
func (m *MemoryStore) Subscribe() <-chan SourceStatus {
	ch := make(chan SourceStatus, subscriberBuffer)

	m.subMu.Lock()
	m.subscribers[ch] = struct{}{}
	m.subMu.Unlock()

	return ch
}

// Unsubscribe removes a subscription and closes its channel.
// Safe to call multiple times or with an unknown channel.
func (m *MemoryStore) Unsubscribe(ch <-chan SourceStatus) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	for subCh := range m.subscribers {
		if subCh == ch {
			delete(m.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

// notifySubscribers sends status to all active subscribers without blocking.
func (m *MemoryStore) notifySubscribers(status SourceStatus) {
	m.subMu.RLock()
	defer m.subMu.RUnlock()

	for ch := range m.subscribers {
		select {
		case ch <- clone(status):
		default:
			// subscriber is slow, drop the message
		}
	}
}

// clone deep-copies the slices and pointers of a status.
func clone(s SourceStatus) SourceStatus {
	if s.Endpoints != nil {
		s.Endpoints = append([]string(nil), s.Endpoints...)
	}
	if s.LastChange != nil {
		c := *s.LastChange
		c.Added = append([]string(nil), c.Added...)
		c.Removed = append([]string(nil), c.Removed...)
		s.LastChange = &c
	}
	if s.Error != nil {
		e := *s.Error
		s.Error = &e
	}
	return s
}
