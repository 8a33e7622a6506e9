package endpoint

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Set is a collection of endpoint descriptors with no duplicates.
//
// The zero value is not usable for Add; create sets with [NewSet] or [Build].
type Set map[string]struct{}

// NewSet returns a set containing the given descriptors.
func NewSet(descriptors ...string) Set {
	s := make(Set, len(descriptors))
	for _, d := range descriptors {
		s[d] = struct{}{}
	}
	return s
}

// Add inserts a descriptor. Adding an existing descriptor is a no-op.
func (s Set) Add(descriptor string) {
	s[descriptor] = struct{}{}
}

// Has reports whether the descriptor is in the set.
func (s Set) Has(descriptor string) bool {
	_, ok := s[descriptor]
	return ok
}

// Len returns the number of descriptors.
func (s Set) Len() int {
	return len(s)
}

// Sorted returns the descriptors in lexicographic order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Minus returns the descriptors in s that are not in other, sorted.
func (s Set) Minus(other Set) []string {
	var out []string
	for d := range s {
		if !other.Has(d) {
			out = append(out, d)
		}
	}
	sort.Strings(out)
	return out
}

// Fingerprint returns a hex SHA-256 digest of the set's canonical form.
//
// The canonical form is the sorted descriptors joined by newlines, so two
// sets with the same members always share a fingerprint.
func (s Set) Fingerprint() string {
	sum := sha256.Sum256([]byte(strings.Join(s.Sorted(), "\n")))
	return hex.EncodeToString(sum[:])
}
