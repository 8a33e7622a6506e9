package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
)

// endpointPool is the set of operations a mock service draws from.
var endpointPool = []string{
	"GET /coins",
	"GET /coins/{id}",
	"GET /markets",
	"GET /exchanges",
	"POST /orders",
	"DELETE /orders/{id}",
	"GET /health",
}

// mockService tracks the published operations of one service.
type mockService struct {
	operations   map[string]bool
	nextChangeAt time.Time
}

// StartMockDocsServer runs a mock server publishing a swagger-ui-init.js
// script per service at /{svc}/docs/swagger-ui-init.js. Every 20-60 seconds
// one operation of a service is added or removed.
// Call this in a goroutine before starting the watcher.
func StartMockDocsServer(addr string) {
	var (
		services = make(map[string]*mockService)
		mu       sync.Mutex
	)

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		svc, ok := strings.CutSuffix(strings.TrimPrefix(r.URL.Path, "/"), "/docs/swagger-ui-init.js")
		if !ok || svc == "" || strings.Contains(svc, "/") {
			http.NotFound(w, r)
			return
		}

		mu.Lock()
		state, exists := services[svc]
		if !exists {
			state = &mockService{
				operations:   map[string]bool{endpointPool[0]: true, endpointPool[1]: true},
				nextChangeAt: time.Now().Add(time.Duration(20+rand.Intn(41)) * time.Second),
			}
			services[svc] = state
		}

		// toggle one operation when the scheduled time is reached
		if time.Now().After(state.nextChangeAt) {
			op := endpointPool[rand.Intn(len(endpointPool))]
			state.operations[op] = !state.operations[op]
			state.nextChangeAt = time.Now().Add(time.Duration(20+rand.Intn(41)) * time.Second)
			slog.Info("operation toggled", "service", svc, "operation", op, "published", state.operations[op])
		}
		page, err := swaggerUIInit(state.operations)
		mu.Unlock()

		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/javascript")
		_, _ = w.Write([]byte(page))
	})

	if err := http.ListenAndServe(addr, nil); err != nil {
		slog.Error("mock server error", "error", err)
	}
}

// swaggerUIInit renders a swagger-ui-init.js script declaring the published
// operations.
func swaggerUIInit(operations map[string]bool) (string, error) {
	paths := make(map[string]map[string]any)
	var published []string
	for op, on := range operations {
		if on {
			published = append(published, op)
		}
	}
	sort.Strings(published)

	for _, op := range published {
		method, path, _ := strings.Cut(op, " ")
		if paths[path] == nil {
			paths[path] = make(map[string]any)
		}
		operation := map[string]any{"responses": map[string]any{"200": map[string]any{"description": ""}}}
		if strings.Contains(path, "{id}") {
			operation["parameters"] = []map[string]any{{"name": "id", "in": "path", "required": true}}
		}
		paths[path][strings.ToLower(method)] = operation
	}

	doc, err := json.MarshalIndent(map[string]any{
		"swaggerDoc": map[string]any{
			"openapi": "3.0.0",
			"info":    map[string]any{"title": "Mock API", "version": "1.0"},
			"paths":   paths,
		},
		"customOptions": map[string]any{},
	}, "  ", "  ")
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`window.onload = function() {
  let url = window.location.origin;
  let options = %s;
  url = options.swaggerUrl || url
  let urls = options.swaggerUrls
  window.ui = SwaggerUIBundle(Object.assign({ url: url, urls: urls }, options.customOptions))
}
`, doc), nil
}
