// Package config provides YAML configuration parsing for specwatch.
//
// This package enables running specwatch as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
//
// Example configuration:
//
//	listen: 9090
//	poll_interval: 5m
//
//	webhook:
//	  url: ${WEBHOOK_URL}
//
//	defaults:
//	  timeout: 20s
//	  headers:
//	    User-Agent: specwatch
//
//	sources:
//	  - name: Frontend API
//	    url: https://frontend-api.example.com/docs/swagger-ui-init.js
//	  - name: Public API
//	    url: https://api.example.com/api-json
//	    extractor: json
//
//	grids:
//	  - name: Exchange
//	    url_template: "https://{{.host}}/docs/swagger-ui-init.js"
//	    dimensions:
//	      host: [api.example.com, api-eu.example.com]
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jpalmerr/specwatch"
)

const (
	// minPollInterval prevents accidental hammering of documentation hosts.
	minPollInterval = 1 * time.Second

	defaultPollInterval = 5 * time.Minute
)

// Config is the root configuration structure for specwatch.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Listen is the status API port. 0, the default, disables it.
	Listen int `yaml:"listen"`

	// PollInterval is the pause between check cycles.
	// Accepts duration strings like "30s", "5m". Defaults to 5m.
	PollInterval Duration `yaml:"poll_interval"`

	// Webhook receives change and error messages. Optional; without it
	// messages are logged.
	Webhook WebhookConfig `yaml:"webhook"`

	// RateLimit spaces out fetches to the same host. Optional.
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// Defaults are applied to every source and grid that leaves the
	// corresponding field unset. Header maps are merged key by key.
	Defaults SourceConfig `yaml:"defaults"`

	// Sources defines individual pages to watch.
	Sources []SourceConfig `yaml:"sources"`

	// Grids defines source grids that expand via cartesian product.
	Grids []GridConfig `yaml:"grids"`
}

// WebhookConfig configures the chat webhook notifier.
type WebhookConfig struct {
	// URL supports environment variable substitution: ${VAR} or ${VAR:-default}
	URL string `yaml:"url"`

	// Timeout bounds one delivery. Defaults to 10s.
	Timeout Duration `yaml:"timeout"`
}

// RateLimitConfig configures per-host fetch limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// Burst defaults to 1 when a rate is set.
	Burst int `yaml:"burst"`
}

// Enabled reports whether a rate limit is configured.
func (r RateLimitConfig) Enabled() bool {
	return r.RequestsPerSecond > 0
}

// SourceConfig defines a single watched page.
type SourceConfig struct {
	// Name is the display name. Defaults to the URL.
	Name string `yaml:"name"`

	// URL is the page to poll, usually a swagger-ui-init.js script.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	URL string `yaml:"url"`

	// Timeout is the fetch timeout. Defaults to 30s.
	Timeout Duration `yaml:"timeout"`

	// Headers are custom HTTP headers sent with each request.
	// Values support environment variable substitution.
	Headers map[string]string `yaml:"headers"`

	// Extractor selects how the specification is found in the page:
	// "swagger-ui" (default), "swagger-ui:<variable>.<field>", "json" or "auto".
	Extractor string `yaml:"extractor"`
}

// GridConfig defines a source grid that expands via cartesian product.
//
// For example, with dimensions {host: [a, b], version: [v1, v2]},
// the grid expands to 4 sources: a/v1, a/v2, b/v1, b/v2.
type GridConfig struct {
	// Name is the base name for generated sources.
	Name string `yaml:"name"`

	// URLTemplate is a Go template for generating source URLs.
	// Dimension keys are available as template variables: {{.host}}
	// Supports environment variable substitution in the template.
	URLTemplate string `yaml:"url_template"`

	// Dimensions maps dimension names to their possible values.
	Dimensions map[string][]string `yaml:"dimensions"`

	// Timeout is the fetch timeout for all generated sources.
	Timeout Duration `yaml:"timeout"`

	// Headers are custom HTTP headers for all generated sources.
	Headers map[string]string `yaml:"headers"`

	// Extractor applies to all generated sources; see [SourceConfig].
	Extractor string `yaml:"extractor"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in the file are expanded before parsing.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in source URLs, grid URL templates,
// header values and the webhook URL. PollInterval defaults to 5m.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.PollInterval == 0 {
		cfg.PollInterval = Duration(defaultPollInterval)
	}
	if cfg.RateLimit.Enabled() && cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = 1
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if c.PollInterval.Duration() < minPollInterval {
		return fmt.Errorf("poll_interval must be at least %s, got %s", minPollInterval, c.PollInterval.Duration())
	}

	if c.Listen < 0 || c.Listen > 65535 {
		return fmt.Errorf("listen must be between 0 and 65535, got %d", c.Listen)
	}

	if c.Webhook.URL != "" {
		expanded, err := expandEnvVars(c.Webhook.URL)
		if err != nil {
			return fmt.Errorf("webhook: url: %w", err)
		}
		c.Webhook.URL = expanded
	}
	// an empty expansion such as ${WEBHOOK_URL:-} disables the webhook
	if c.Webhook.URL != "" {
		if err := validateURL(c.Webhook.URL); err != nil {
			return fmt.Errorf("webhook: %w", err)
		}
	}
	if c.Webhook.Timeout < 0 {
		return fmt.Errorf("webhook: timeout cannot be negative, got %s", c.Webhook.Timeout.Duration())
	}

	if c.RateLimit.RequestsPerSecond < 0 {
		return fmt.Errorf("rate_limit: requests_per_second cannot be negative, got %v", c.RateLimit.RequestsPerSecond)
	}
	if c.RateLimit.Enabled() && c.RateLimit.Burst < 1 {
		return fmt.Errorf("rate_limit: burst must be at least 1, got %d", c.RateLimit.Burst)
	}

	if c.Defaults.Name != "" || c.Defaults.URL != "" {
		return errors.New("defaults: name and url cannot have defaults")
	}
	if err := c.Defaults.expandShared("defaults"); err != nil {
		return err
	}

	seen := make(map[string]int, len(c.Sources))
	for i := range c.Sources {
		src := &c.Sources[i]
		context := fmt.Sprintf("sources[%d]", i)
		if src.Name != "" {
			context = fmt.Sprintf("sources[%d] (%s)", i, src.Name)
		}

		if src.URL == "" {
			return fmt.Errorf("%s: url is required", context)
		}
		expanded, err := expandEnvVars(src.URL)
		if err != nil {
			return fmt.Errorf("%s: url: %w", context, err)
		}
		src.URL = expanded

		if err := validateURL(src.URL); err != nil {
			return fmt.Errorf("%s: %w", context, err)
		}
		if j, dup := seen[src.URL]; dup {
			return fmt.Errorf("%s: url duplicates sources[%d]", context, j)
		}
		seen[src.URL] = i

		if err := src.expandShared(context); err != nil {
			return err
		}
	}

	for i := range c.Grids {
		g := &c.Grids[i]

		if g.Name == "" {
			return fmt.Errorf("grids[%d]: name is required", i)
		}
		context := fmt.Sprintf("grids[%d] (%s)", i, g.Name)

		if g.URLTemplate == "" {
			return fmt.Errorf("%s: url_template is required", context)
		}
		expanded, err := expandEnvVars(g.URLTemplate)
		if err != nil {
			return fmt.Errorf("%s: url_template: %w", context, err)
		}
		g.URLTemplate = expanded

		// fail fast before the SDK tries to use an invalid template
		if _, err := template.New("").Parse(g.URLTemplate); err != nil {
			return fmt.Errorf("%s: invalid url_template: %w", context, err)
		}

		if len(g.Dimensions) == 0 {
			return fmt.Errorf("%s: at least one dimension is required", context)
		}
		for dimName, dimValues := range g.Dimensions {
			if len(dimValues) == 0 {
				return fmt.Errorf("%s: dimension %q has no values", context, dimName)
			}
			seenValues := make(map[string]struct{}, len(dimValues))
			for _, v := range dimValues {
				if _, exists := seenValues[v]; exists {
					return fmt.Errorf("%s: dimension %q has duplicate value %q", context, dimName, v)
				}
				seenValues[v] = struct{}{}
			}
		}

		shared := g.shared()
		if err := shared.expandShared(context); err != nil {
			return err
		}
		g.Headers = shared.Headers
	}

	if len(c.Sources) == 0 && len(c.Grids) == 0 {
		return errors.New("at least one source or grid must be defined")
	}

	return nil
}

// expandShared expands and validates the fields sources, grids and
// defaults have in common.
func (s *SourceConfig) expandShared(context string) error {
	for k, v := range s.Headers {
		expanded, err := expandEnvVars(v)
		if err != nil {
			return fmt.Errorf("%s: headers[%s]: %w", context, k, err)
		}
		s.Headers[k] = expanded
	}

	if s.Timeout != 0 {
		if s.Timeout.Duration() < 0 {
			return fmt.Errorf("%s: timeout cannot be negative, got %s", context, s.Timeout.Duration())
		}
		if s.Timeout.Duration() < time.Second {
			return fmt.Errorf("%s: timeout must be at least 1s if specified, got %s", context, s.Timeout.Duration())
		}
	}

	if _, err := specwatch.ParseExtractor(s.Extractor); err != nil {
		return fmt.Errorf("%s: %w", context, err)
	}
	return nil
}

// shared returns the grid fields that are applied to each generated source.
func (g GridConfig) shared() SourceConfig {
	return SourceConfig{
		Timeout:   g.Timeout,
		Headers:   g.Headers,
		Extractor: g.Extractor,
	}
}

// validateURL checks for an absolute http(s) URL.
func validateURL(raw string) error {
	parsedURL, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if parsedURL.Scheme == "" {
		return errors.New("url must have a scheme (http:// or https://)")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return errors.New("url must have a host")
	}
	return nil
}
