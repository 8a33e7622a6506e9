package specwatch

import (
	"errors"
	"fmt"
	"time"
)

type gridConfig struct {
	urlTemplate string
	dimensions  map[string][]string
	headers     map[string]string
	timeout     time.Duration
	extractor   SpecExtractor
}

// GridOption configures [NewSourceGrid].
type GridOption func(*gridConfig) error

// WithURLTemplate sets the text/template rendered for each combination,
// for example "https://{{.host}}/{{.svc}}/docs/swagger-ui-init.js".
func WithURLTemplate(tmpl string) GridOption {
	return func(cfg *gridConfig) error {
		if tmpl == "" {
			return errors.New("URL template required")
		}
		cfg.urlTemplate = tmpl
		return nil
	}
}

// WithDimensions sets the template keys and the values each one takes.
// Every key needs at least one value, and values must be non-empty and
// distinct so that no two sources share a URL.
func WithDimensions(dims map[string][]string) GridOption {
	return func(cfg *gridConfig) error {
		if len(dims) == 0 {
			return errors.New("at least one dimension required")
		}
		for k, vals := range dims {
			if len(vals) == 0 {
				return fmt.Errorf("dimension %q has no values", k)
			}
			seen := make(map[string]bool, len(vals))
			for i, v := range vals {
				if v == "" {
					return fmt.Errorf("dimension %q contains empty value at index %d", k, i)
				}
				if seen[v] {
					return fmt.Errorf("dimension %q repeats value %q", k, v)
				}
				seen[v] = true
			}
		}
		cfg.dimensions = dims
		return nil
	}
}

// WithGridHeaders adds headers, as key-value pairs, to every generated
// source.
func WithGridHeaders(keyValues ...string) GridOption {
	return func(cfg *gridConfig) error {
		if len(keyValues)%2 != 0 {
			return errors.New("WithGridHeaders requires an even number of arguments (key-value pairs)")
		}
		if cfg.headers == nil {
			cfg.headers = make(map[string]string, len(keyValues)/2)
		}
		for i := 0; i < len(keyValues); i += 2 {
			cfg.headers[keyValues[i]] = keyValues[i+1]
		}
		return nil
	}
}

// WithGridTimeout sets the fetch timeout of every generated source. Zero
// keeps the source default.
func WithGridTimeout(d time.Duration) GridOption {
	return func(cfg *gridConfig) error {
		if d < 0 {
			return errors.New("timeout cannot be negative")
		}
		cfg.timeout = d
		return nil
	}
}

// WithGridExtractor sets the [SpecExtractor] of every generated source.
func WithGridExtractor(e SpecExtractor) GridOption {
	return func(cfg *gridConfig) error {
		cfg.extractor = e
		return nil
	}
}

// sourceOptions returns the options shared by every source of the grid.
func (cfg *gridConfig) sourceOptions() []SourceOption {
	var opts []SourceOption
	if len(cfg.headers) > 0 {
		opts = append(opts, withHeaderMap(cfg.headers))
	}
	if cfg.timeout > 0 {
		opts = append(opts, WithTimeout(cfg.timeout))
	}
	if cfg.extractor != nil {
		opts = append(opts, WithExtractor(cfg.extractor))
	}
	return opts
}
