package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// execute runs the root command with args and returns captured stdout and
// any error.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

// writeConfig writes content to a temporary config file.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestRunValidate_ValidConfig(t *testing.T) {
	configPath := writeConfig(t, `
listen: 9090
poll_interval: 10s
sources:
  - name: Test
    url: https://example.com/docs/swagger-ui-init.js
grids:
  - name: Exchange
    url_template: "https://{{.host}}/docs/swagger-ui-init.js"
    dimensions:
      host: [api.example.com, api-eu.example.com]
`)

	output, err := execute(t, "validate", "-c", configPath)
	if err != nil {
		t.Fatalf("validate command error = %v", err)
	}

	expectedPhrases := []string{
		"Config is valid!",
		"Status API:    9090",
		"Poll interval: 10s",
		"Webhook:       none",
		"1 direct + 2 from grids = 3 total",
	}

	for _, phrase := range expectedPhrases {
		if !strings.Contains(output, phrase) {
			t.Errorf("output missing %q\nGot: %s", phrase, output)
		}
	}
}

func TestRunValidate_InvalidConfig(t *testing.T) {
	configPath := writeConfig(t, `
sources:
  - name: Test
`)

	_, err := execute(t, "validate", "-c", configPath)
	if err == nil {
		t.Fatal("validate command expected error for invalid config, got nil")
	}

	if !strings.Contains(err.Error(), "url is required") {
		t.Errorf("error should mention 'url is required', got: %v", err)
	}
}

func TestRunValidate_GridExpansionError(t *testing.T) {
	configPath := writeConfig(t, `
grids:
  - name: Broken
    url_template: "https://{{.missing}}/docs"
    dimensions:
      host: [a.example.com]
`)

	_, err := execute(t, "validate", "-c", configPath)
	if err == nil {
		t.Fatal("validate command expected error for grid expansion, got nil")
	}
	if !strings.Contains(err.Error(), "Broken") {
		t.Errorf("error should name the grid, got: %v", err)
	}
}

func TestRunValidate_MissingFile(t *testing.T) {
	_, err := execute(t, "validate", "-c", "/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("validate command expected error for missing file, got nil")
	}

	if !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("error should mention 'failed to read', got: %v", err)
	}
}

func TestVersion(t *testing.T) {
	output, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version command error = %v", err)
	}
	if !strings.HasPrefix(output, "specwatch dev") {
		t.Errorf("output = %q, want version line", output)
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	configPath := writeConfig(t, `
sources:
  - url: https://example.com/docs
`)

	_, err := execute(t, "watch", "-c", configPath, "--log-level", "loud")
	if err == nil {
		t.Fatal("watch command expected error for invalid log level, got nil")
	}
	if !strings.Contains(err.Error(), "log-level") {
		t.Errorf("error should mention log-level, got: %v", err)
	}

	// reset the persistent flag for later tests
	_ = rootCmd.PersistentFlags().Set("log-level", "info")
}
