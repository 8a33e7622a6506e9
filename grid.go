package specwatch

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"text/template"
)

// NewSourceGrid expands a URL template into one [Source] per combination of
// dimension values. It covers the usual deployment shape of one docs path
// served by several hosts:
//
//	sources, err := specwatch.NewSourceGrid("Exchange",
//	    specwatch.WithURLTemplate("https://{{.host}}/docs/swagger-ui-init.js"),
//	    specwatch.WithDimensions(map[string][]string{
//	        "host": {"api.example.com", "api-eu.example.com"},
//	    }),
//	)
//
// Values are path-escaped before rendering, so "localhost:8080" stays a
// host and "a/b" becomes one path segment. A key the template names but the
// dimensions lack is an error.
//
// Sources are named "Exchange (api.example.com)". With several dimensions
// the raw values are joined with "/" in key order, and combinations are
// produced in that same order with the last key varying fastest.
func NewSourceGrid(baseName string, opts ...GridOption) ([]Source, error) {
	if strings.TrimSpace(baseName) == "" {
		return nil, errors.New("base name cannot be empty")
	}

	cfg := &gridConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.urlTemplate == "" {
		return nil, errors.New("URL template required")
	}
	if len(cfg.dimensions) == 0 {
		return nil, errors.New("at least one dimension required")
	}

	tmpl, err := template.New("url").Option("missingkey=error").Parse(cfg.urlTemplate)
	if err != nil {
		return nil, fmt.Errorf("invalid URL template: %w", err)
	}

	shared := cfg.sourceOptions()
	axes := sortedAxes(cfg.dimensions)

	var sources []Source
	err = walkGrid(axes, make([]string, 0, len(axes)), func(cell []string) error {
		name := fmt.Sprintf("%s (%s)", baseName, strings.Join(cell, "/"))

		rawURL, err := renderCell(tmpl, axes, cell)
		if err != nil {
			return fmt.Errorf("template execution failed for %q: %w", name, err)
		}

		src, err := NewSource(rawURL, append([]SourceOption{WithName(name)}, shared...)...)
		if err != nil {
			return fmt.Errorf("failed to create source %q: %w", name, err)
		}
		sources = append(sources, src)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sources, nil
}

// gridAxis is one dimension of a grid.
type gridAxis struct {
	key    string
	values []string
}

func sortedAxes(dims map[string][]string) []gridAxis {
	axes := make([]gridAxis, 0, len(dims))
	for k, vals := range dims {
		axes = append(axes, gridAxis{key: k, values: vals})
	}
	sort.Slice(axes, func(i, j int) bool { return axes[i].key < axes[j].key })
	return axes
}

// walkGrid calls visit with every combination of axis values, one value per
// axis in axis order. The slice passed to visit is reused between calls.
func walkGrid(axes []gridAxis, cell []string, visit func([]string) error) error {
	if len(axes) == 0 {
		return visit(cell)
	}
	for _, v := range axes[0].values {
		if err := walkGrid(axes[1:], append(cell, v), visit); err != nil {
			return err
		}
	}
	return nil
}

func renderCell(tmpl *template.Template, axes []gridAxis, cell []string) (string, error) {
	data := make(map[string]string, len(axes))
	for i, axis := range axes {
		data[axis.key] = url.PathEscape(cell[i])
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
