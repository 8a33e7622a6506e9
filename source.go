package specwatch

import (
	"errors"
	"net/url"
	"time"
)

const defaultSourceTimeout = 30 * time.Second

// Source is a page that exposes an API specification.
//
// Source is immutable after creation via [NewSource]. Its identity is the
// URL; the name is only used for display in logs, metrics and the status
// API.
//
// Sources are configured using [SourceOption] functions such as
// [WithName], [WithHeaders], [WithTimeout] and [WithExtractor].
type Source struct {
	name      string
	url       string
	headers   map[string]string
	timeout   time.Duration
	extractor SpecExtractor
}

// Name returns the source's display name. Defaults to the URL.
func (s Source) Name() string {
	return s.name
}

// URL returns the page URL that is polled.
func (s Source) URL() string {
	return s.url
}

// Headers returns a copy of the source's custom HTTP headers.
// Returns nil if no custom headers are set.
func (s Source) Headers() map[string]string {
	return copyMap(s.headers)
}

// Timeout returns the fetch timeout. Defaults to 30 seconds.
func (s Source) Timeout() time.Duration {
	return s.timeout
}

// Extractor returns the source's [SpecExtractor].
// Returns nil if none was set, in which case [SwaggerUIExtractor] is used.
func (s Source) Extractor() SpecExtractor {
	return s.extractor
}

// NewSource creates a [Source] for the given URL.
//
// The rawURL parameter must be an absolute http:// or https:// URL,
// typically pointing at a swagger-ui-init.js script.
//
// Example:
//
//	src, err := specwatch.NewSource("https://api.example.com/docs/swagger-ui-init.js",
//	    specwatch.WithName("Example API"),
//	    specwatch.WithTimeout(10 * time.Second),
//	)
func NewSource(rawURL string, opts ...SourceOption) (Source, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return Source{}, errors.New("invalid URL: " + err.Error())
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return Source{}, errors.New("URL must have an http:// or https:// scheme")
	}
	if parsedURL.Host == "" {
		return Source{}, errors.New("URL must have a host")
	}

	cfg := &sourceConfig{
		headers: make(map[string]string),
		timeout: defaultSourceTimeout,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return Source{}, err
		}
	}

	name := cfg.name
	if name == "" {
		name = rawURL
	}

	return Source{
		name:      name,
		url:       rawURL,
		headers:   cfg.headers,
		timeout:   cfg.timeout,
		extractor: cfg.extractor,
	}, nil
}

// copyMap returns a shallow copy of the map.
func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
