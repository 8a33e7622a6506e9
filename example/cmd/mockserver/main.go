// Standalone mock server for testing the CLI.
//
// Usage:
//
//	go run ./example/cmd/mockserver
//
// Then in another terminal:
//
//	go run ./cmd/specwatch watch -c example/config.yaml
//
// Each POST to /toggle?path=/x&method=get adds the operation to, or removes
// it from, the published document.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
)

func main() {
	fmt.Println("Mock docs server starting on :9999")
	fmt.Println("  script:  http://localhost:9999/docs/swagger-ui-init.js")
	fmt.Println("  json:    http://localhost:9999/api-json")
	fmt.Println("  toggle:  curl -X POST 'http://localhost:9999/toggle?method=get&path=/markets'")
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	var (
		mu    sync.Mutex
		paths = map[string]map[string]any{
			"/coins":      {"get": map[string]any{}},
			"/coins/{id}": {"get": map[string]any{"parameters": []any{map[string]any{"name": "id", "in": "path"}}}},
		}
	)

	document := func() ([]byte, error) {
		mu.Lock()
		defer mu.Unlock()
		return json.Marshal(map[string]any{"openapi": "3.0.0", "paths": paths})
	}

	http.HandleFunc("/api-json", func(w http.ResponseWriter, r *http.Request) {
		doc, err := document()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(doc)
	})

	http.HandleFunc("/docs/swagger-ui-init.js", func(w http.ResponseWriter, r *http.Request) {
		doc, err := document()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/javascript")
		fmt.Fprintf(w, "window.onload = function() {\n  let options = {\n  \"swaggerDoc\": %s,\n  \"customOptions\": {}\n};\n}\n", doc)
	})

	http.HandleFunc("/toggle", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		path := r.URL.Query().Get("path")
		method := strings.ToLower(r.URL.Query().Get("method"))
		if !strings.HasPrefix(path, "/") || method == "" {
			http.Error(w, "path and method are required", http.StatusBadRequest)
			return
		}

		mu.Lock()
		item, ok := paths[path]
		if !ok {
			item = make(map[string]any)
			paths[path] = item
		}
		_, published := item[method]
		if published {
			delete(item, method)
			if len(item) == 0 {
				delete(paths, path)
			}
		} else {
			item[method] = map[string]any{}
		}
		mu.Unlock()

		slog.Info("operation toggled", "method", method, "path", path, "published", !published)
		fmt.Fprintf(w, "%s %s published=%v\n", strings.ToUpper(method), path, !published)
	})

	if err := http.ListenAndServe(":9999", nil); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
