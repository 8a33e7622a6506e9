package scrape

import (
	"encoding/json"
	"strings"
)

// Result is the outcome of parsing a lenient object literal: either
// Parsed(document) or Unparseable.
type Result struct {
	doc    json.RawMessage
	parsed bool
}

// Parsed wraps a successfully parsed document.
func Parsed(doc json.RawMessage) Result {
	return Result{doc: doc, parsed: true}
}

// Unparseable is the result for input that could not be repaired into JSON.
func Unparseable() Result {
	return Result{}
}

// Document returns the parsed JSON and whether parsing succeeded.
func (r Result) Document() (json.RawMessage, bool) {
	return r.doc, r.parsed
}

// ParseLiteral repairs a JavaScript object literal into strict JSON.
//
// Supported relaxations:
//   - bare keys: {swaggerDoc: {...}} becomes {"swaggerDoc": {...}}
//   - trailing commas before "}" or "]"
//   - single-quoted strings
//
// Not supported: comments, template literals, functions, regexp literals,
// computed keys, or identifiers used as values (other than true, false and
// null). Any of those make the literal Unparseable.
func ParseLiteral(src string) Result {
	repaired, ok := repair(src)
	if !ok {
		return Unparseable()
	}
	if !json.Valid([]byte(repaired)) {
		return Unparseable()
	}
	return Parsed(json.RawMessage(repaired))
}

// repair rewrites src outside of string literals. It returns false when a
// string literal is left unterminated.
func repair(src string) (string, bool) {
	var out strings.Builder
	out.Grow(len(src) + len(src)/8)

	// last non-space byte emitted outside a string
	var prev byte

	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '"':
			end, ok := scanDoubleQuoted(src, i)
			if !ok {
				return "", false
			}
			out.WriteString(src[i:end])
			prev = '"'
			i = end

		case c == '\'':
			end, ok := writeSingleQuoted(&out, src, i)
			if !ok {
				return "", false
			}
			prev = '"'
			i = end

		case isWordByte(c):
			end := i
			for end < len(src) && isWordByte(src[end]) {
				end++
			}
			word := src[i:end]
			next := skipSpace(src, end)
			if (prev == '{' || prev == ',') && next < len(src) && src[next] == ':' {
				out.WriteString(`"` + word + `"`)
			} else {
				out.WriteString(word)
			}
			prev = word[len(word)-1]
			i = end

		case c == ',':
			next := skipSpace(src, i+1)
			if next < len(src) && (src[next] == '}' || src[next] == ']') {
				i++
				continue
			}
			out.WriteByte(c)
			prev = c
			i++

		default:
			out.WriteByte(c)
			if !isSpace(c) {
				prev = c
			}
			i++
		}
	}

	return out.String(), true
}

// scanDoubleQuoted returns the index just past the closing quote of the
// string starting at src[start].
func scanDoubleQuoted(src string, start int) (int, bool) {
	for i := start + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case '"':
			return i + 1, true
		}
	}
	return 0, false
}

// writeSingleQuoted converts the single-quoted string at src[start] to a
// double-quoted one and returns the index just past its closing quote.
func writeSingleQuoted(out *strings.Builder, src string, start int) (int, bool) {
	var b strings.Builder
	b.WriteByte('"')
	for i := start + 1; i < len(src); i++ {
		c := src[i]
		switch c {
		case '\\':
			if i+1 >= len(src) {
				return 0, false
			}
			if src[i+1] == '\'' {
				b.WriteByte('\'')
			} else {
				b.WriteByte(c)
				b.WriteByte(src[i+1])
			}
			i++
		case '"':
			b.WriteString(`\"`)
		case '\'':
			b.WriteByte('"')
			out.WriteString(b.String())
			return i + 1, true
		default:
			b.WriteByte(c)
		}
	}
	return 0, false
}

// skipSpace returns the index of the first non-space byte at or after i,
// or len(src) if there is none.
func skipSpace(src string, i int) int {
	for i < len(src) && isSpace(src[i]) {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isWordByte(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
