package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"helios-labs/prism/pkg/cli"
	"helios-labs/prism/pkg/config"
	"helios-labs/prism/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile   string
	verbose   bool
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "prism",
	Short: "Prism - resilient multi-provider AI adapter layer",
	Long: `Prism is a resilient adapter layer in front of multiple AI providers.

It normalizes provider wire formats behind one interface and wraps every
call in retry-with-backoff and a per-adapter circuit breaker:
  - Uniform request/response types (OpenAI, Anthropic, OpenRouter)
  - Tag-based retry of transient failures
  - Circuit breaking with automatic recovery probes
  - Token estimation and context-window accounting
  - Prometheus metrics, OTLP tracing, and usage reporting

For more information, visit: https://github.com/helios-labs/prism`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with the mapped code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		code := cli.ExitCode(err)
		if code == cli.ExitUsage {
			fmt.Fprintf(os.Stderr, "Run '%s --help' for usage.\n", rootCmd.Name())
		}
		os.Exit(code)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "prism.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format override (json, text)")

	// Flag parse failures are usage errors, not runtime failures.
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return cli.NewUsageError("%v", err)
	})

	rootCmd.CompletionOptions.DisableDefaultCmd = false
}

// usageArgs wraps a positional-args validator so violations exit with the
// usage code.
func usageArgs(validator cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validator(cmd, args); err != nil {
			return cli.NewUsageError("%v", err)
		}
		return nil
	}
}

// loadConfig reads the configured file with environment overrides applied.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError(cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds the process logger from config plus flag overrides.
// Logs go to stderr so stdout stays machine-readable.
func newLogger(cfg *config.Config) (*slog.Logger, error) {
	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	format := cfg.Logging.Format
	if logFormat != "" {
		format = logFormat
	}

	return logging.New(logging.Config{
		Level:         level,
		Format:        format,
		AddSource:     cfg.Logging.AddSource,
		RedactSecrets: true,
	})
}
