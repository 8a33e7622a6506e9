package specwatch

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jpalmerr/specwatch/internal/scrape"
)

// SpecExtractor pulls an API specification document out of a fetched page.
//
// It returns false when the page holds no recognisable document. Extractors
// must not panic on malformed input; if one does, the check is recorded as
// failed for that source only.
type SpecExtractor func(body []byte) (json.RawMessage, bool)

// SwaggerUIExtractor reads the swaggerDoc member of the options object in a
// swagger-ui-init.js script, as generated by NestJS and similar frameworks.
// It is the default for every source.
var SwaggerUIExtractor = SpecExtractor(scrape.SwaggerUIInit())

// JSONDocumentExtractor treats the whole body as an OpenAPI or Swagger JSON
// document, for routes such as /api-json or /openapi.json.
var JSONDocumentExtractor = SpecExtractor(scrape.JSONDocument)

// AssignmentExtractor returns a [SpecExtractor] for scripts that assign the
// specification to a different variable or member than swagger-ui-init.js:
//
//	extractor := specwatch.AssignmentExtractor("ui", "spec")
//	// matches: const ui = { spec: { paths: { ... } } };
func AssignmentExtractor(variable, field string) SpecExtractor {
	return SpecExtractor(scrape.Assignment(variable, field))
}

// FirstMatch returns a [SpecExtractor] that tries each extractor in order
// and returns the first document found.
//
// Example:
//
//	extractor := specwatch.FirstMatch(
//	    specwatch.SwaggerUIExtractor,
//	    specwatch.JSONDocumentExtractor,
//	)
func FirstMatch(extractors ...SpecExtractor) SpecExtractor {
	inner := make([]scrape.Extractor, len(extractors))
	for i, e := range extractors {
		inner[i] = scrape.Extractor(e)
	}
	return SpecExtractor(scrape.FirstMatch(inner...))
}

// ParseExtractor resolves an extractor shorthand as used in configuration
// files:
//
//   - "" or "swagger-ui": [SwaggerUIExtractor]
//   - "swagger-ui:<variable>.<field>": [AssignmentExtractor]
//   - "json": [JSONDocumentExtractor]
//   - "auto": swagger-ui, then json
func ParseExtractor(shorthand string) (SpecExtractor, error) {
	switch s := strings.TrimSpace(shorthand); {
	case s == "" || s == "swagger-ui":
		return SwaggerUIExtractor, nil
	case s == "json":
		return JSONDocumentExtractor, nil
	case s == "auto":
		return FirstMatch(SwaggerUIExtractor, JSONDocumentExtractor), nil
	case strings.HasPrefix(s, "swagger-ui:"):
		variable, field, ok := strings.Cut(strings.TrimPrefix(s, "swagger-ui:"), ".")
		if !ok || !isIdentifier(variable) || !isIdentifier(field) {
			return nil, fmt.Errorf("invalid extractor %q: want swagger-ui:<variable>.<field>", shorthand)
		}
		return AssignmentExtractor(variable, field), nil
	default:
		return nil, fmt.Errorf("unknown extractor %q (want swagger-ui, swagger-ui:<variable>.<field>, json or auto)", shorthand)
	}
}

// isIdentifier reports whether s is a plain JavaScript identifier.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
