package monitor

import (
	"time"

	"github.com/jpalmerr/specwatch/internal/endpoint"
)

// Entry is the last known endpoint set of one source.
type Entry struct {
	Endpoints   endpoint.Set
	Fingerprint string
	CheckedAt   time.Time
	ChangedAt   time.Time
}

// State maps a source URL to its last known [Entry].
type State map[string]Entry

// Clone returns a shallow copy of the state. Endpoint sets are never
// mutated after they are built, so they are shared.
func (s State) Clone() State {
	out := make(State, len(s))
	for url, e := range s {
		out[url] = e
	}
	return out
}
