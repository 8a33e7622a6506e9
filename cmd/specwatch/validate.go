package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/specwatch/config"
)

// validateCmd validates a config file without watching anything.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a specwatch configuration file without fetching any source.

This command parses the YAML, expands environment variables, applies
defaults, expands grids and validates all fields. It's useful for CI/CD
pipelines or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  specwatch validate -c config.yaml
  specwatch validate --config /etc/specwatch/config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// building catches template errors that only show on expansion
	sources, err := config.BuildSources(cfg)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	direct := len(cfg.Sources)
	fromGrids := len(sources) - direct

	listen := "disabled"
	if cfg.Listen > 0 {
		listen = fmt.Sprintf("%d", cfg.Listen)
	}
	webhook := "none (messages are logged)"
	if cfg.Webhook.URL != "" {
		webhook = "configured"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config is valid!\n")
	fmt.Fprintf(out, "  Status API:    %s\n", listen)
	fmt.Fprintf(out, "  Poll interval: %s\n", cfg.PollInterval.Duration())
	fmt.Fprintf(out, "  Webhook:       %s\n", webhook)
	fmt.Fprintf(out, "  Sources:       %d direct + %d from grids = %d total\n",
		direct, fromGrids, len(sources))

	return nil
}
