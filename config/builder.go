package config

import (
	"fmt"
	"sort"

	"dario.cat/mergo"

	"github.com/jpalmerr/specwatch"
)

// BuildSources converts parsed configuration into SDK Source objects.
//
// Direct sources come first in file order, followed by each grid's
// expansion. Defaults fill any field a source or grid leaves unset.
func BuildSources(cfg *Config) ([]specwatch.Source, error) {
	var sources []specwatch.Source

	for i, sc := range cfg.Sources {
		merged, err := withDefaults(sc, cfg.Defaults)
		if err != nil {
			return nil, fmt.Errorf("sources[%d]: %w", i, err)
		}

		src, err := buildSource(merged)
		if err != nil {
			return nil, fmt.Errorf("sources[%d] (%s): %w", i, sc.URL, err)
		}
		sources = append(sources, src)
	}

	for i, gc := range cfg.Grids {
		merged, err := withDefaults(gc.shared(), cfg.Defaults)
		if err != nil {
			return nil, fmt.Errorf("grids[%d]: %w", i, err)
		}

		gridSources, err := buildGridSources(gc, merged)
		if err != nil {
			return nil, fmt.Errorf("grids[%d] (%s): %w", i, gc.Name, err)
		}
		sources = append(sources, gridSources...)
	}

	return sources, nil
}

// Options converts the whole configuration into [specwatch.Option] values
// ready for [specwatch.New].
func Options(cfg *Config) ([]specwatch.Option, error) {
	sources, err := BuildSources(cfg)
	if err != nil {
		return nil, err
	}

	opts := []specwatch.Option{
		specwatch.WithSources(sources...),
		specwatch.WithPollingInterval(cfg.PollInterval.Duration()),
		specwatch.WithPort(cfg.Listen),
	}
	if cfg.Webhook.URL != "" {
		opts = append(opts, specwatch.WithWebhook(cfg.Webhook.URL, cfg.Webhook.Timeout.Duration()))
	}
	if cfg.RateLimit.Enabled() {
		opts = append(opts, specwatch.WithRateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	}
	return opts, nil
}

// withDefaults fills unset fields of sc from defaults. Header maps are
// merged with the source's own values taking precedence; neither input
// map is modified.
func withDefaults(sc, defaults SourceConfig) (SourceConfig, error) {
	sc.Headers = copyHeaders(sc.Headers)
	defaults.Headers = copyHeaders(defaults.Headers)

	if err := mergo.Merge(&sc, defaults); err != nil {
		return SourceConfig{}, fmt.Errorf("failed to apply defaults: %w", err)
	}
	return sc, nil
}

// buildSource converts a single SourceConfig to an SDK Source.
func buildSource(sc SourceConfig) (specwatch.Source, error) {
	var opts []specwatch.SourceOption

	if sc.Name != "" {
		opts = append(opts, specwatch.WithName(sc.Name))
	}

	if sc.Timeout != 0 {
		opts = append(opts, specwatch.WithTimeout(sc.Timeout.Duration()))
	}

	if len(sc.Headers) > 0 {
		opts = append(opts, specwatch.WithHeaders(mapToKeyValuePairs(sc.Headers)...))
	}

	if sc.Extractor != "" {
		extractor, err := specwatch.ParseExtractor(sc.Extractor)
		if err != nil {
			return specwatch.Source{}, err
		}
		opts = append(opts, specwatch.WithExtractor(extractor))
	}

	return specwatch.NewSource(sc.URL, opts...)
}

// buildGridSources expands a GridConfig through [specwatch.NewSourceGrid].
func buildGridSources(gc GridConfig, shared SourceConfig) ([]specwatch.Source, error) {
	opts := []specwatch.GridOption{
		specwatch.WithURLTemplate(gc.URLTemplate),
		specwatch.WithDimensions(gc.Dimensions),
	}

	if shared.Timeout != 0 {
		opts = append(opts, specwatch.WithGridTimeout(shared.Timeout.Duration()))
	}

	if len(shared.Headers) > 0 {
		opts = append(opts, specwatch.WithGridHeaders(mapToKeyValuePairs(shared.Headers)...))
	}

	if shared.Extractor != "" {
		extractor, err := specwatch.ParseExtractor(shared.Extractor)
		if err != nil {
			return nil, err
		}
		opts = append(opts, specwatch.WithGridExtractor(extractor))
	}

	return specwatch.NewSourceGrid(gc.Name, opts...)
}

// mapToKeyValuePairs converts a map to a sorted slice of key-value pairs.
func mapToKeyValuePairs(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(m)*2)
	for _, k := range keys {
		pairs = append(pairs, k, m[k])
	}
	return pairs
}

func copyHeaders(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
