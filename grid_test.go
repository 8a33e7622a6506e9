package specwatch

import (
	"strings"
	"testing"
	"time"
)

func TestNewSourceGrid_HostsAndServices(t *testing.T) {
	sources, err := NewSourceGrid("Exchange",
		WithURLTemplate("https://{{.host}}/{{.svc}}/docs/swagger-ui-init.js"),
		WithDimensions(map[string][]string{
			"svc":  {"orders", "coins"},
			"host": {"api.example.com", "api-eu.example.com"},
		}),
	)
	if err != nil {
		t.Fatalf("NewSourceGrid() error = %v", err)
	}

	// keys in sorted order, values in given order, last key fastest
	want := []struct{ name, url string }{
		{"Exchange (api.example.com/orders)", "https://api.example.com/orders/docs/swagger-ui-init.js"},
		{"Exchange (api.example.com/coins)", "https://api.example.com/coins/docs/swagger-ui-init.js"},
		{"Exchange (api-eu.example.com/orders)", "https://api-eu.example.com/orders/docs/swagger-ui-init.js"},
		{"Exchange (api-eu.example.com/coins)", "https://api-eu.example.com/coins/docs/swagger-ui-init.js"},
	}
	if len(sources) != len(want) {
		t.Fatalf("got %d sources, want %d", len(sources), len(want))
	}
	for i, w := range want {
		if sources[i].Name() != w.name || sources[i].URL() != w.url {
			t.Errorf("sources[%d] = %q %q, want %q %q", i, sources[i].Name(), sources[i].URL(), w.name, w.url)
		}
	}
}

func TestNewSourceGrid_Escaping(t *testing.T) {
	tests := []struct {
		tmpl  string
		value string
		url   string
	}{
		{"http://{{.v}}/docs/swagger-ui-init.js", "localhost:8080", "http://localhost:8080/docs/swagger-ui-init.js"},
		{"https://api.example.com/{{.v}}/swagger-ui-init.js", "my api", "https://api.example.com/my%20api/swagger-ui-init.js"},
		{"https://api.example.com/{{.v}}/swagger-ui-init.js", "a/b", "https://api.example.com/a%2Fb/swagger-ui-init.js"},
		{"https://api.example.com/{{.v}}/swagger-ui-init.js", "a?b", "https://api.example.com/a%3Fb/swagger-ui-init.js"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			sources, err := NewSourceGrid("Docs",
				WithURLTemplate(tt.tmpl),
				WithDimensions(map[string][]string{"v": {tt.value}}),
			)
			if err != nil {
				t.Fatalf("NewSourceGrid() error = %v", err)
			}
			if sources[0].URL() != tt.url {
				t.Errorf("URL() = %q, want %q", sources[0].URL(), tt.url)
			}
			if want := "Docs (" + tt.value + ")"; sources[0].Name() != want {
				t.Errorf("Name() = %q, want raw value in %q", sources[0].Name(), want)
			}
		})
	}
}

func TestNewSourceGrid_SharedOptions(t *testing.T) {
	sources, err := NewSourceGrid("Public",
		WithURLTemplate("https://{{.host}}/api-json"),
		WithDimensions(map[string][]string{"host": {"a.example.com", "b.example.com"}}),
		WithGridHeaders("Authorization", "Bearer token"),
		WithGridTimeout(5*time.Second),
		WithGridExtractor(JSONDocumentExtractor),
	)
	if err != nil {
		t.Fatalf("NewSourceGrid() error = %v", err)
	}

	for _, src := range sources {
		if src.Headers()["Authorization"] != "Bearer token" {
			t.Errorf("%s: Authorization = %q", src.Name(), src.Headers()["Authorization"])
		}
		if src.Timeout() != 5*time.Second {
			t.Errorf("%s: Timeout() = %v, want 5s", src.Name(), src.Timeout())
		}
		if src.Extractor() == nil {
			t.Errorf("%s: Extractor() = nil", src.Name())
		}
	}

	// each source owns its headers
	h := sources[0].Headers()
	h["Authorization"] = "changed"
	if sources[1].Headers()["Authorization"] != "Bearer token" {
		t.Error("headers are shared between grid sources")
	}
}

func TestNewSourceGrid_Defaults(t *testing.T) {
	sources, err := NewSourceGrid("Docs",
		WithURLTemplate("https://{{.host}}/docs"),
		WithDimensions(map[string][]string{"host": {"a.example.com"}}),
		WithGridTimeout(0),
	)
	if err != nil {
		t.Fatalf("NewSourceGrid() error = %v", err)
	}
	if sources[0].Timeout() != defaultSourceTimeout {
		t.Errorf("Timeout() = %v, want %v", sources[0].Timeout(), defaultSourceTimeout)
	}
	if len(sources[0].Headers()) != 0 {
		t.Errorf("Headers() = %v, want none", sources[0].Headers())
	}
	if sources[0].Extractor() != nil {
		t.Error("Extractor() should be nil so the default applies")
	}
}

func TestNewSourceGrid_UsableWithNew(t *testing.T) {
	sources, err := NewSourceGrid("Docs",
		WithURLTemplate("https://{{.host}}/docs"),
		WithDimensions(map[string][]string{"host": {"a.example.com", "b.example.com"}}),
	)
	if err != nil {
		t.Fatalf("NewSourceGrid() error = %v", err)
	}

	w, err := New(WithSources(sources...))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if len(w.Sources()) != 2 {
		t.Errorf("Sources() = %d, want 2", len(w.Sources()))
	}
}

func TestNewSourceGrid_Errors(t *testing.T) {
	host := WithDimensions(map[string][]string{"h": {"a"}})

	tests := []struct {
		name     string
		baseName string
		opts     []GridOption
		wantErr  string
	}{
		{"blank base name", "  ", []GridOption{WithURLTemplate("https://{{.h}}"), host}, "base name"},
		{"missing template", "Docs", []GridOption{host}, "URL template"},
		{"empty template", "Docs", []GridOption{WithURLTemplate(""), host}, "URL template"},
		{"missing dimensions", "Docs", []GridOption{WithURLTemplate("https://{{.h}}")}, "dimension"},
		{"dimension without values", "Docs", []GridOption{WithURLTemplate("https://{{.h}}"), WithDimensions(map[string][]string{"h": {}})}, `"h" has no values`},
		{"empty value", "Docs", []GridOption{WithURLTemplate("https://{{.h}}"), WithDimensions(map[string][]string{"h": {"a", ""}})}, "empty value at index 1"},
		{"repeated value", "Docs", []GridOption{WithURLTemplate("https://{{.h}}"), WithDimensions(map[string][]string{"h": {"a", "a"}})}, "repeats value"},
		{"template syntax", "Docs", []GridOption{WithURLTemplate("https://{{.h"), host}, "invalid URL template"},
		{"unknown template key", "Docs", []GridOption{WithURLTemplate("https://{{.other}}"), host}, "template execution failed"},
		{"rendered URL not http", "Docs", []GridOption{WithURLTemplate("ftp://{{.h}}/docs"), host}, `failed to create source "Docs (a)"`},
		{"odd header args", "Docs", []GridOption{WithGridHeaders("Authorization")}, "even number"},
		{"negative timeout", "Docs", []GridOption{WithGridTimeout(-time.Second)}, "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSourceGrid(tt.baseName, tt.opts...)
			if err == nil {
				t.Fatal("NewSourceGrid() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestWalkGrid(t *testing.T) {
	axes := sortedAxes(map[string][]string{"b": {"1", "2"}, "a": {"x"}, "c": {"p", "q"}})

	var got []string
	err := walkGrid(axes, nil, func(cell []string) error {
		got = append(got, strings.Join(cell, ","))
		return nil
	})
	if err != nil {
		t.Fatalf("walkGrid() error = %v", err)
	}

	want := "x,1,p x,1,q x,2,p x,2,q"
	if strings.Join(got, " ") != want {
		t.Errorf("walkGrid() = %v, want %v", got, want)
	}
}
