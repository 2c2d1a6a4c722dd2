package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"helios-labs/prism/pkg/cli"
	"helios-labs/prism/pkg/config"
)

func TestRootCommandRegistrations(t *testing.T) {
	want := []string{"ask", "completion", "models", "probe", "serve", "validate", "version"}
	for _, name := range want {
		if !hasSubcommand(rootCmd, name) {
			t.Errorf("root command is missing subcommand %q", name)
		}
	}
}

func hasSubcommand(cmd *cobra.Command, name string) bool {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return true
		}
	}
	return false
}

func TestPersistentFlags(t *testing.T) {
	for _, name := range []string{"config", "verbose", "log-format"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("missing persistent flag %q", name)
		}
	}
}

func TestUsageArgs(t *testing.T) {
	validator := usageArgs(cobra.NoArgs)

	if err := validator(&cobra.Command{Use: "x"}, nil); err != nil {
		t.Errorf("expected no error for empty args, got %v", err)
	}

	err := validator(&cobra.Command{Use: "x"}, []string{"extra"})
	if err == nil {
		t.Fatal("expected error for extra args")
	}
	if got := cli.ExitCode(err); got != cli.ExitUsage {
		t.Errorf("ExitCode = %d, want %d", got, cli.ExitUsage)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prism.yaml")
	content := `
providers:
  - name: openai
    api_key: sk-test
    default_model: gpt-4o
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	orig := cfgFile
	defer func() { cfgFile = orig }()
	cfgFile = path

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if len(cfg.Providers) != 1 || cfg.Providers[0].Name != "openai" {
		t.Errorf("unexpected providers: %+v", cfg.Providers)
	}
}

func TestLoadConfig_InvalidMapsToConfigExit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prism.yaml")
	content := `
logging:
  level: shout
providers:
  - name: openai
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	orig := cfgFile
	defer func() { cfgFile = orig }()
	cfgFile = path

	_, err := loadConfig()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if got := cli.ExitCode(err); got != cli.ExitConfig {
		t.Errorf("ExitCode = %d, want %d", got, cli.ExitConfig)
	}
}

func TestLoadConfig_MissingFileMapsToConfigExit(t *testing.T) {
	orig := cfgFile
	defer func() { cfgFile = orig }()
	cfgFile = filepath.Join(t.TempDir(), "does-not-exist.yaml")

	_, err := loadConfig()
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if got := cli.ExitCode(err); got != cli.ExitConfig {
		t.Errorf("ExitCode = %d, want %d", got, cli.ExitConfig)
	}
}

func TestNewLogger_VerboseEnablesDebug(t *testing.T) {
	origVerbose, origFormat := verbose, logFormat
	defer func() { verbose, logFormat = origVerbose, origFormat }()
	verbose = true
	logFormat = "text"

	logger, err := newLogger(config.Default())
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("verbose flag should enable debug logging")
	}
}
