package endpoint

import "strings"

const (
	addedHeader   = "NEW ENDPOINTS:"
	removedHeader = "REMOVED ENDPOINTS:"
)

// Report lists the descriptors added and removed between two sets.
// Both slices are sorted lexicographically.
type Report struct {
	Added   []string
	Removed []string
}

// Empty reports whether nothing was added or removed.
func (r Report) Empty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0
}

// String renders the human-readable report.
//
// Added descriptors appear under "NEW ENDPOINTS:" prefixed with "+ ",
// removed ones under "REMOVED ENDPOINTS:" prefixed with "- ". A blank line
// separates the sections when both are present; empty sections are omitted.
func (r Report) String() string {
	var lines []string

	if len(r.Added) > 0 {
		lines = append(lines, addedHeader)
		for _, d := range r.Added {
			lines = append(lines, "+ "+d)
		}
	}

	if len(r.Removed) > 0 {
		if len(r.Added) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, removedHeader)
		for _, d := range r.Removed {
			lines = append(lines, "- "+d)
		}
	}

	return strings.Join(lines, "\n")
}

// Diff compares previous and current and returns the resulting [Report].
// The boolean is false when the sets hold the same descriptors.
func Diff(previous, current Set) (Report, bool) {
	r := Report{
		Added:   current.Minus(previous),
		Removed: previous.Minus(current),
	}
	if r.Empty() {
		return Report{}, false
	}
	return r, true
}
