package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"helios-labs/prism/pkg/cli"
	"helios-labs/prism/pkg/config"
	"helios-labs/prism/pkg/registry"
	"helios-labs/prism/pkg/server"
	"helios-labs/prism/pkg/telemetry/metrics"
	"helios-labs/prism/pkg/telemetry/tracing"
	"helios-labs/prism/pkg/usage"
)

var serveFlags struct {
	listen string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the telemetry server",
	Long: `Run the Prism telemetry server.

The server constructs the adapter registry, starts background health
checking and the scheduled usage reporter (when enabled), watches the
configuration file for changes, and exposes HTTP endpoints:

  /health    liveness probe
  /ready     readiness probe (503 unless a healthy adapter exists)
  /adapters  per-adapter availability, health, and breaker state
  /version   build information
  /usage     aggregated token usage (when usage tracking is enabled)
  /metrics   Prometheus exposition (when metrics are enabled)

Generation traffic does not pass through this server; the registry is
embedded by the program making adapter calls.

The server shuts down gracefully on SIGINT/SIGTERM.

Examples:
  # Serve with the default config
  prism serve

  # Override the listen address
  prism serve --listen 0.0.0.0:9090`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listen, "listen", "l", "", "override listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Apply flag overrides
	if serveFlags.listen != "" {
		cfg.Server.Listen = serveFlags.listen
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()

	var adapterMetrics *metrics.AdapterMetrics
	if cfg.Metrics.Enabled {
		adapterMetrics = metrics.NewAdapterMetrics(cfg.Metrics.Namespace, nil)
	}

	tracer, err := tracing.New(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.Tracing.ServiceName,
		Sampler:     samplerFor(cfg.Tracing.SampleRate),
		SampleRatio: cfg.Tracing.SampleRate,
		Insecure:    cfg.Tracing.Insecure,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		if err := tracer.Shutdown(context.Background()); err != nil {
			logger.Warn("tracer shutdown failed", "error", err)
		}
	}()

	var tracker *usage.Tracker
	if cfg.Usage.Enabled {
		tracker = usage.NewTracker()
		reporter := usage.NewReporter(tracker, cfg.Usage.ReportSchedule, logger)
		if err := reporter.Start(ctx); err != nil {
			return fmt.Errorf("failed to start usage reporter: %w", err)
		}
		defer reporter.Stop()
	}

	opts := []registry.Option{
		registry.WithTracer(tracer),
	}
	if adapterMetrics != nil {
		opts = append(opts, registry.WithMetrics(adapterMetrics))
	}
	if tracker != nil {
		opts = append(opts, registry.WithUsageTracker(tracker))
	}
	if cfg.Health.Enabled {
		opts = append(opts, registry.WithHealthChecks(ctx))
	}

	reg := registry.New(cfg, logger, opts...)
	defer reg.Close()

	printServeBanner(cfg, reg)

	// Watch the config file so bad edits surface immediately. Adapter
	// changes still need a restart; the reload revalidates and logs.
	watcher, err := config.NewWatcher(cfgFile, config.DefaultDebounceInterval, logger)
	if err != nil {
		logger.Warn("config watcher disabled", "error", err)
	} else {
		defer watcher.Stop()
		go func() {
			watchErr := watcher.Watch(ctx, func() error {
				if _, err := config.LoadConfigWithEnvOverrides(cfgFile); err != nil {
					return fmt.Errorf("changed config is invalid: %w", err)
				}
				logger.Info("configuration changed on disk; restart to apply adapter changes",
					"path", cfgFile)
				return nil
			})
			if watchErr != nil {
				logger.Warn("config watcher stopped", "error", watchErr)
			}
		}()
	}

	srvOpts := []server.Option{
		server.WithVersion(server.VersionInfo{
			Version:   Version,
			Commit:    GitCommit,
			BuildTime: BuildDate,
		}),
	}
	if adapterMetrics != nil {
		srvOpts = append(srvOpts, server.WithMetrics(adapterMetrics))
	}
	if tracker != nil {
		srvOpts = append(srvOpts, server.WithUsageTracker(tracker))
	}

	srv := server.New(cfg.Server, reg, logger, srvOpts...)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	fmt.Println("✓ Server stopped")
	return nil
}

func printServeBanner(cfg *config.Config, reg *registry.Registry) {
	fmt.Printf("Prism v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)
	fmt.Println("✓ Configuration loaded")
	fmt.Printf("✓ Registry initialized (%d adapters)\n", len(reg.GetAllAdapters()))

	if cfg.Health.Enabled {
		fmt.Printf("✓ Background health checks every %s\n", cfg.Health.Interval)
	}
	if cfg.Usage.Enabled {
		fmt.Printf("✓ Usage reporting on schedule %q\n", cfg.Usage.ReportSchedule)
	}

	fmt.Println()
	fmt.Printf("✓ Listening on %s\n", cfg.Server.Listen)
	fmt.Printf("✓ Health endpoint: http://%s/health\n", cfg.Server.Listen)
	if cfg.Metrics.Enabled {
		fmt.Printf("✓ Metrics endpoint: http://%s/metrics\n", cfg.Server.Listen)
	}
	fmt.Println("\nPress Ctrl+C to stop")
}

// samplerFor maps the configured sample rate onto a sampler mode.
func samplerFor(rate float64) string {
	switch {
	case rate >= 1:
		return "always"
	case rate <= 0:
		return "never"
	default:
		return "ratio"
	}
}
