// Package main is the entry point for the specwatch CLI.
//
// specwatch can be run either as a library (SDK) or as a standalone binary
// with YAML configuration. This CLI provides the standalone binary approach.
//
// Usage:
//
//	specwatch watch -c config.yaml     # Watch the configured sources
//	specwatch validate -c config.yaml  # Validate configuration
//	specwatch snapshot <url>           # Print the endpoints of one page
//	specwatch version                  # Show version info
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "specwatch",
	Short: "Watch API documentation for endpoint changes",
	Long: `specwatch polls Swagger UI pages and OpenAPI documents and reports
endpoints that appear or disappear between checks.

Changes are posted to a chat webhook (Discord or Slack-compatible) as a
diff, and the latest state of every source is available over HTTP.

Quick start:
  1. Create a config file (specwatch.yaml)
  2. Run: specwatch watch -c specwatch.yaml

Example config:
  poll_interval: 5m
  webhook:
    url: ${WEBHOOK_URL}
  sources:
    - name: Frontend API
      url: https://frontend-api.example.com/docs/swagger-ui-init.js`,
	SilenceUsage: true,
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this specwatch binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "specwatch %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.AddCommand(versionCmd)
}

// newLogger creates a JSON logger on stderr at the level set by --log-level.
func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	name, _ := cmd.Flags().GetString("log-level")

	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: want debug, info, warn or error", name)
	}

	return slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	})), nil
}
