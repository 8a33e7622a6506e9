package endpoint

import (
	"encoding/json"
	"fmt"
	"strings"
)

// unknownField is used for a parameter location or name the document omits.
const unknownField = "unknown"

// Build walks the "paths" member of an API specification document and returns
// the set of endpoint descriptors it declares.
//
// Every path-item member whose value is a JSON object is treated as an
// operation keyed by its HTTP method. Other members (a path-level
// "parameters" array, "summary" or "$ref" strings) are skipped.
//
// An empty document, invalid JSON, or a missing "paths" member yields an
// empty set.
func Build(doc json.RawMessage) Set {
	set := make(Set)
	if len(doc) == 0 {
		return set
	}

	var spec struct {
		Paths map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal(doc, &spec); err != nil {
		return set
	}

	for path, rawItem := range spec.Paths {
		var item map[string]json.RawMessage
		if err := json.Unmarshal(rawItem, &item); err != nil {
			continue
		}

		for method, rawOp := range item {
			var op map[string]json.RawMessage
			if err := json.Unmarshal(rawOp, &op); err != nil || op == nil {
				continue
			}
			set.Add(Format(method, path, parameters(op["parameters"])))
		}
	}

	return set
}

// Format renders a descriptor as "METHOD PATH (p1, p2)".
// The parameter suffix is omitted when params is empty.
func Format(method, path string, params []string) string {
	descriptor := strings.ToUpper(method) + " " + path
	if len(params) > 0 {
		descriptor += " (" + strings.Join(params, ", ") + ")"
	}
	return descriptor
}

// parameters returns "location:name" pairs in declaration order.
func parameters(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}

	params := make([]string, 0, len(list))
	for _, rawParam := range list {
		var param map[string]any
		if err := json.Unmarshal(rawParam, &param); err != nil {
			param = nil
		}
		params = append(params, paramField(param, "in")+":"+paramField(param, "name"))
	}
	return params
}

// paramField reads a parameter attribute, falling back to "unknown".
func paramField(param map[string]any, key string) string {
	v, ok := param[key]
	if !ok || v == nil {
		return unknownField
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
