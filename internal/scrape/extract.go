package scrape

import (
	"bytes"
	"encoding/json"
	"regexp"
)

const (
	// DefaultVariable is the variable swagger-ui-init.js assigns its options to.
	DefaultVariable = "options"

	// DefaultField is the options member holding the specification document.
	DefaultField = "swaggerDoc"
)

// Extractor pulls an API specification document out of a fetched body.
// It returns false when no document could be found; it never panics on
// malformed input.
type Extractor func(body []byte) (json.RawMessage, bool)

// SwaggerUIInit returns the extractor for the swagger-ui-init.js script
// generated by NestJS and similar frameworks:
//
//	let options = {
//	  "swaggerDoc": { "openapi": "3.0.0", "paths": { ... } },
//	  "customOptions": {}
//	};
func SwaggerUIInit() Extractor {
	return Assignment(DefaultVariable, DefaultField)
}

// Assignment returns an extractor that finds the first
// "let|var|const <variable> = {...}" assignment, parses the object literal
// leniently (see [ParseLiteral]) and returns its field member.
//
// The member must be a non-empty JSON object; any other value counts as
// not found.
func Assignment(variable, field string) Extractor {
	pattern := regexp.MustCompile(`\b(?:let|var|const)\s+` + regexp.QuoteMeta(variable) + `\s*=\s*\{`)

	return func(body []byte) (json.RawMessage, bool) {
		loc := pattern.FindIndex(body)
		if loc == nil {
			return nil, false
		}

		literal, ok := objectLiteral(body, loc[1]-1)
		if !ok {
			return nil, false
		}

		doc, ok := ParseLiteral(literal).Document()
		if !ok {
			return nil, false
		}
		member, ok := objectMember(doc, field)
		if !ok || IsEmpty(member) {
			return nil, false
		}
		return member, true
	}
}

// JSONDocument treats the whole body as the specification document, as
// served by /api-json or /openapi.json routes. The body must be a JSON
// object with a "paths" member.
func JSONDocument(body []byte) (json.RawMessage, bool) {
	body = bytes.TrimSpace(body)
	if !isObject(body) {
		return nil, false
	}
	if _, ok := objectMember(body, "paths"); !ok {
		return nil, false
	}
	return json.RawMessage(body), true
}

// FirstMatch tries each extractor in order and returns the first document
// found.
func FirstMatch(extractors ...Extractor) Extractor {
	return func(body []byte) (json.RawMessage, bool) {
		for _, extract := range extractors {
			if extract == nil {
				continue
			}
			if doc, ok := extract(body); ok {
				return doc, true
			}
		}
		return nil, false
	}
}

// objectLiteral returns the object literal opening at body[start].
//
// Braces are matched outside string and template literals. A ";" reached
// before the literal closes ends the statement, so the input is rejected
// rather than read further.
func objectLiteral(body []byte, start int) (string, bool) {
	depth := 0
	for i := start; i < len(body); i++ {
		switch c := body[i]; c {
		case '"', '\'', '`':
			end := skipQuoted(body, i, c)
			if end < 0 {
				return "", false
			}
			i = end
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return string(body[start : i+1]), true
			}
		case ';':
			return "", false
		}
	}
	return "", false
}

// skipQuoted returns the index of the closing quote for the string opening
// at body[start], or -1 if it is never closed.
func skipQuoted(body []byte, start int, quote byte) int {
	for i := start + 1; i < len(body); i++ {
		switch body[i] {
		case '\\':
			i++
		case quote:
			return i
		}
	}
	return -1
}

// objectMember returns doc[name] when doc is an object and the member is
// itself an object.
func objectMember(doc json.RawMessage, name string) (json.RawMessage, bool) {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(doc, &members); err != nil {
		return nil, false
	}

	member, ok := members[name]
	if !ok || !isObject(bytes.TrimSpace(member)) {
		return nil, false
	}
	return member, true
}

// IsEmpty reports whether doc holds no data: it is blank, null or an
// object without members.
func IsEmpty(doc json.RawMessage) bool {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(doc, &members); err != nil {
		return len(bytes.TrimSpace(doc)) == 0
	}
	return len(members) == 0
}

func isObject(b []byte) bool {
	return len(b) > 0 && b[0] == '{'
}
