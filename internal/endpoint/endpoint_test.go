package endpoint

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		expected []string
	}{
		{
			name:     "single operation without parameters",
			doc:      `{"paths": {"/coins": {"get": {}}}}`,
			expected: []string{"GET /coins"},
		},
		{
			name:     "path parameter",
			doc:      `{"paths": {"/coins/{id}": {"get": {"parameters": [{"in": "path", "name": "id"}]}}}}`,
			expected: []string{"GET /coins/{id} (path:id)"},
		},
		{
			name: "parameters keep declaration order",
			doc: `{"paths": {"/trades": {"post": {"parameters": [
				{"in": "query", "name": "limit"},
				{"in": "header", "name": "x-api-key"},
				{"in": "query", "name": "after"}
			]}}}}`,
			expected: []string{"POST /trades (query:limit, header:x-api-key, query:after)"},
		},
		{
			name:     "missing location and name default to unknown",
			doc:      `{"paths": {"/a": {"delete": {"parameters": [{"name": "id"}, {"in": "query"}, {"$ref": "#/p"}]}}}}`,
			expected: []string{"DELETE /a (unknown:id, query:unknown, unknown:unknown)"},
		},
		{
			name:     "multiple methods and paths",
			doc:      `{"paths": {"/a": {"get": {}, "put": {}}, "/b": {"patch": {}}}}`,
			expected: []string{"GET /a", "PATCH /b", "PUT /a"},
		},
		{
			name:     "non-object path item members are skipped",
			doc:      `{"paths": {"/a": {"summary": "x", "parameters": [{"in": "path", "name": "id"}], "get": {}, "head": null}}}`,
			expected: []string{"GET /a"},
		},
		{
			name:     "empty parameter list omits the suffix",
			doc:      `{"paths": {"/a": {"get": {"parameters": []}}}}`,
			expected: []string{"GET /a"},
		},
		{
			name:     "missing paths",
			doc:      `{"openapi": "3.0.0"}`,
			expected: []string{},
		},
		{
			name:     "paths of the wrong type",
			doc:      `{"paths": ["/a"]}`,
			expected: []string{},
		},
		{
			name:     "invalid document",
			doc:      `{"paths": `,
			expected: []string{},
		},
		{
			name:     "empty document",
			doc:      ``,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Build(json.RawMessage(tt.doc))
			assert.Equal(t, tt.expected, got.Sorted())
		})
	}
}

func TestBuild_Deterministic(t *testing.T) {
	doc := json.RawMessage(`{"paths": {
		"/a": {"get": {}, "post": {"parameters": [{"in": "body", "name": "b"}]}},
		"/b": {"get": {}}, "/c": {"put": {}}, "/d": {"delete": {}}
	}}`)

	first := Build(doc)
	for i := 0; i < 20; i++ {
		got := Build(doc)
		require.Equal(t, first, got)
		require.Equal(t, first.Fingerprint(), got.Fingerprint())
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "GET /a", Format("get", "/a", nil))
	assert.Equal(t, "POST /a (query:x, path:y)", Format("Post", "/a", []string{"query:x", "path:y"}))
}

func TestSet_Fingerprint(t *testing.T) {
	a := NewSet("GET /a", "POST /b", "PUT /c")
	b := NewSet("PUT /c", "GET /a", "POST /b")
	c := NewSet("GET /a", "POST /b")

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
	assert.Len(t, a.Fingerprint(), 64)
}

func TestSet_Duplicates(t *testing.T) {
	s := NewSet("GET /a", "GET /a")
	s.Add("GET /a")

	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Has("GET /a"))
	assert.False(t, s.Has("GET /b"))
}

func TestDiff_Added(t *testing.T) {
	report, ok := Diff(NewSet("GET /a"), NewSet("GET /a", "POST /b"))

	require.True(t, ok)
	assert.Equal(t, "NEW ENDPOINTS:\n+ POST /b", report.String())
}

func TestDiff_Removed(t *testing.T) {
	report, ok := Diff(NewSet("GET /a", "GET /b"), NewSet("GET /a"))

	require.True(t, ok)
	assert.Equal(t, "REMOVED ENDPOINTS:\n- GET /b", report.String())
}

func TestDiff_BothSections(t *testing.T) {
	report, ok := Diff(
		NewSet("GET /keep", "GET /old", "DELETE /gone"),
		NewSet("GET /keep", "POST /new", "GET /added"),
	)

	require.True(t, ok)
	expected := "NEW ENDPOINTS:\n" +
		"+ GET /added\n" +
		"+ POST /new\n" +
		"\n" +
		"REMOVED ENDPOINTS:\n" +
		"- DELETE /gone\n" +
		"- GET /old"
	assert.Equal(t, expected, report.String())
}

func TestDiff_Identity(t *testing.T) {
	sets := []Set{
		NewSet(),
		NewSet("GET /a"),
		NewSet("GET /a", "POST /b (body:payload)", "DELETE /c/{id} (path:id)"),
	}

	for _, s := range sets {
		report, ok := Diff(s, s)
		assert.False(t, ok)
		assert.True(t, report.Empty())
		assert.Equal(t, "", report.String())
	}
}

func TestDiff_Antisymmetry(t *testing.T) {
	for _, pair := range randomSetPairs(50) {
		forward, _ := Diff(pair[0], pair[1])
		backward, _ := Diff(pair[1], pair[0])

		assert.Equal(t, forward.Added, backward.Removed)
		assert.Equal(t, forward.Removed, backward.Added)
	}
}

func TestDiff_Completeness(t *testing.T) {
	for _, pair := range randomSetPairs(50) {
		b, a := pair[0], pair[1]
		report, _ := Diff(b, a)

		// every member of A - B is listed as added, and nothing else
		var want []string
		for _, d := range a.Sorted() {
			if !b.Has(d) {
				want = append(want, d)
			}
		}
		assert.Equal(t, want, report.Added)
	}
}

// randomSetPairs returns deterministic pseudo-random pairs of overlapping sets.
func randomSetPairs(n int) [][2]Set {
	pairs := make([][2]Set, 0, n)
	seed := uint32(7)
	next := func() uint32 {
		seed = seed*1664525 + 1013904223
		return seed >> 16
	}

	for i := 0; i < n; i++ {
		a, b := NewSet(), NewSet()
		for j := 0; j < int(next()%12); j++ {
			a.Add(fmt.Sprintf("GET /r%d", next()%16))
		}
		for j := 0; j < int(next()%12); j++ {
			b.Add(fmt.Sprintf("GET /r%d", next()%16))
		}
		pairs = append(pairs, [2]Set{a, b})
	}
	return pairs
}
