package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/specwatch"
)

func main() {
	// start mock server (see mock_server.go)
	go StartMockDocsServer(":9999")
	time.Sleep(100 * time.Millisecond)

	// grid API: 2 services from one declaration
	sources, err := specwatch.NewSourceGrid("Mock",
		specwatch.WithURLTemplate("http://localhost:9999/{{.svc}}/docs/swagger-ui-init.js"),
		specwatch.WithDimensions(map[string][]string{
			"svc": {"coins", "orders"},
		}),
	)
	if err != nil {
		slog.Error("failed to create source grid", "error", err)
		os.Exit(1)
	}

	opts := []specwatch.Option{
		specwatch.WithSources(sources...),
		specwatch.WithPollingInterval(5 * time.Second),
		specwatch.WithPort(8080),
		specwatch.WithChangeCallback(func(ev specwatch.ChangeEvent) {
			fmt.Printf("\n%s changed:\n%s\n\n", ev.SourceName, ev.Report)
		}),
	}
	if hook := os.Getenv("WEBHOOK_URL"); hook != "" {
		opts = append(opts, specwatch.WithWebhook(hook, 0))
	}

	w, err := specwatch.New(opts...)
	if err != nil {
		slog.Error("failed to create watcher", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  specwatch demo")
	fmt.Println()
	fmt.Println("  Sources: 2 mock services (via grid), one operation toggles every 20-60s")
	fmt.Println("  Status:  http://localhost:8080/api/sources")
	fmt.Println("  Events:  http://localhost:8080/api/events")
	fmt.Println("  Metrics: http://localhost:8080/metrics")
	fmt.Println()
	fmt.Println("  Set WEBHOOK_URL to post changes to a Discord or Slack webhook.")
	fmt.Println("  Press Ctrl+C to stop")
	fmt.Println()

	// set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := w.Start(ctx); err != nil {
		slog.Error("specwatch error", "error", err)
		os.Exit(1)
	}
}
