package specwatch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSwaggerUIInit = `window.onload = function() {
  let options = {
  "swaggerDoc": {
    "openapi": "3.0.0",
    "paths": {
      "/coins/{id}": {
        "get": {"parameters": [{"name": "id", "in": "path"}]}
      }
    }
  },
  "customOptions": {}
};
  url = options.swaggerUrl || url
}`

const testJSONDocument = `{"openapi": "3.0.0", "paths": {"/health": {"get": {}}}}`

const testCustomAssignment = `const ui = { spec: { paths: { '/status': { get: {} } } } };`

func TestSwaggerUIExtractor(t *testing.T) {
	doc, ok := SwaggerUIExtractor([]byte(testSwaggerUIInit))
	require.True(t, ok)
	assert.Contains(t, string(doc), "/coins/{id}")

	_, ok = SwaggerUIExtractor([]byte(testJSONDocument))
	assert.False(t, ok, "plain JSON is not a swagger-ui-init script")
}

func TestJSONDocumentExtractor(t *testing.T) {
	doc, ok := JSONDocumentExtractor([]byte(testJSONDocument))
	require.True(t, ok)
	assert.Contains(t, string(doc), "/health")

	_, ok = JSONDocumentExtractor([]byte(testSwaggerUIInit))
	assert.False(t, ok)
}

func TestAssignmentExtractor(t *testing.T) {
	doc, ok := AssignmentExtractor("ui", "spec")([]byte(testCustomAssignment))
	require.True(t, ok)
	assert.Contains(t, string(doc), "/status")

	_, ok = AssignmentExtractor("ui", "spec")([]byte(testSwaggerUIInit))
	assert.False(t, ok)
}

func TestFirstMatch(t *testing.T) {
	extract := FirstMatch(SwaggerUIExtractor, nil, JSONDocumentExtractor)

	tests := []struct {
		name   string
		body   string
		want   string
		wantOK bool
	}{
		{"first extractor matches", testSwaggerUIInit, "/coins/{id}", true},
		{"falls through to second", testJSONDocument, "/health", true},
		{"nothing matches", "<html></html>", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, ok := extract([]byte(tt.body))
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Contains(t, string(doc), tt.want)
			}
		})
	}
}

func TestFirstMatch_Empty(t *testing.T) {
	_, ok := FirstMatch()([]byte(testJSONDocument))
	assert.False(t, ok)
}

func TestParseExtractor(t *testing.T) {
	tests := []struct {
		name      string
		shorthand string
		body      string
		want      string
	}{
		{"empty is swagger-ui", "", testSwaggerUIInit, "/coins/{id}"},
		{"swagger-ui", "swagger-ui", testSwaggerUIInit, "/coins/{id}"},
		{"surrounding space", "  json  ", testJSONDocument, "/health"},
		{"json", "json", testJSONDocument, "/health"},
		{"auto reads scripts", "auto", testSwaggerUIInit, "/coins/{id}"},
		{"auto reads json", "auto", testJSONDocument, "/health"},
		{"custom assignment", "swagger-ui:ui.spec", testCustomAssignment, "/status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extract, err := ParseExtractor(tt.shorthand)
			require.NoError(t, err)

			doc, ok := extract([]byte(tt.body))
			require.True(t, ok)
			assert.Contains(t, string(doc), tt.want)
		})
	}
}

func TestParseExtractor_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		shorthand string
		wantErr   string
	}{
		{"unknown", "yaml", "unknown extractor"},
		{"missing field", "swagger-ui:ui", "invalid extractor"},
		{"empty variable", "swagger-ui:.spec", "invalid extractor"},
		{"not an identifier", "swagger-ui:ui-x.spec", "invalid extractor"},
		{"leading digit", "swagger-ui:1ui.spec", "invalid extractor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extract, err := ParseExtractor(tt.shorthand)
			require.Error(t, err)
			assert.Nil(t, extract)
			assert.True(t, strings.Contains(err.Error(), tt.wantErr), "error = %q", err)
		})
	}
}

func TestIsIdentifier(t *testing.T) {
	assert.True(t, isIdentifier("options"))
	assert.True(t, isIdentifier("$ui_2"))
	assert.False(t, isIdentifier(""))
	assert.False(t, isIdentifier("2ui"))
	assert.False(t, isIdentifier("a.b"))
}
