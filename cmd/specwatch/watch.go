package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/specwatch"
	"github.com/jpalmerr/specwatch/config"
)

const (
	shutdownTimeout = 10 * time.Second
)

// watchCmd runs the monitor until interrupted.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the configured sources",
	Long: `Watch the sources in a specwatch configuration file.

specwatch will:
  - Load configuration from the specified YAML file
  - Record the current endpoints of every source
  - Re-check every source after each poll interval
  - Send a diff to the webhook when endpoints are added or removed
  - Serve the status API when listen is set

It runs until interrupted (Ctrl+C) or receives SIGTERM. If monitoring
stops on an unexpected error, one error message is sent to the webhook
and the command exits with status 1.

Example:
  specwatch watch -c config.yaml
  specwatch watch --config /etc/specwatch/config.yaml --log-level debug`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = watchCmd.MarkFlagRequired("config")
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}

	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger.Info("config loaded",
		"sources", len(cfg.Sources),
		"grids", len(cfg.Grids),
		"webhook", cfg.Webhook.URL != "",
	)

	opts, err := config.Options(cfg)
	if err != nil {
		return fmt.Errorf("failed to build sources: %w", err)
	}
	opts = append(opts, specwatch.WithLogger(logger))

	w, err := specwatch.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	// set up context with signal handling - cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		errChan <- w.Start(ctx)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return err
		}
		logger.Info("shutdown complete")
		return nil

	case <-ctx.Done():
		// signal received, wait for graceful shutdown with timeout
		select {
		case err := <-errChan:
			if err != nil {
				return err
			}
			logger.Info("shutdown complete")
			return nil
		case <-time.After(shutdownTimeout):
			logger.Warn("shutdown timed out",
				"timeout", shutdownTimeout.String(),
				"action", "forcing exit",
			)
			return nil
		}
	}
}
