package specwatch

import (
	"errors"
	"strings"
	"time"
)

// sourceConfig holds mutable state during source construction.
type sourceConfig struct {
	name      string
	headers   map[string]string
	timeout   time.Duration
	extractor SpecExtractor
}

// SourceOption is a function that configures a [Source] during construction.
//
// Options return an error if validation fails.
type SourceOption func(*sourceConfig) error

// WithName sets the display name used in logs, metrics and the status API.
//
// Returns an error if the name is blank.
func WithName(name string) SourceOption {
	return func(cfg *sourceConfig) error {
		if strings.TrimSpace(name) == "" {
			return errors.New("source name cannot be empty")
		}
		cfg.name = name
		return nil
	}
}

// WithHeaders adds HTTP headers to every fetch of this source. They
// override the browser-like defaults.
//
// Accepts variadic key-value pairs. The number of arguments must be even.
//
// Example:
//
//	src, err := specwatch.NewSource(url,
//	    specwatch.WithHeaders("Authorization", "Bearer token123"),
//	)
func WithHeaders(keyValues ...string) SourceOption {
	return func(cfg *sourceConfig) error {
		if len(keyValues)%2 != 0 {
			return errors.New("WithHeaders requires an even number of arguments (key-value pairs)")
		}
		for i := 0; i < len(keyValues); i += 2 {
			cfg.headers[keyValues[i]] = keyValues[i+1]
		}
		return nil
	}
}

// withHeaderMap copies headers into the source, overriding earlier values.
func withHeaderMap(headers map[string]string) SourceOption {
	return func(cfg *sourceConfig) error {
		for k, v := range headers {
			cfg.headers[k] = v
		}
		return nil
	}
}

// WithTimeout sets the fetch timeout for this source.
// Defaults to 30 seconds if not specified.
//
// Returns an error if the duration is zero or negative.
func WithTimeout(d time.Duration) SourceOption {
	return func(cfg *sourceConfig) error {
		if d <= 0 {
			return errors.New("timeout must be positive")
		}
		cfg.timeout = d
		return nil
	}
}

// WithExtractor sets the [SpecExtractor] for this source.
// If not specified, [SwaggerUIExtractor] is used.
func WithExtractor(e SpecExtractor) SourceOption {
	return func(cfg *sourceConfig) error {
		cfg.extractor = e
		return nil
	}
}
