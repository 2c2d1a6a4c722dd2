// Package server provides the telemetry HTTP server run by "prism serve".
//
// The server reads adapter state out of the registry and exposes it over
// HTTP for operators, Kubernetes probes, and Prometheus scrapes. It never
// proxies generation traffic; adapter calls stay in-process with whatever
// program embeds the registry.
//
// # Basic Usage
//
// Creating and starting a server:
//
//	import (
//	    "context"
//	    "helios-labs/prism/pkg/config"
//	    "helios-labs/prism/pkg/registry"
//	    "helios-labs/prism/pkg/server"
//	)
//
//	cfg, err := config.LoadConfigWithEnvOverrides("prism.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	reg := registry.New(cfg, logger)
//	defer reg.Close()
//
//	srv := server.New(cfg.Server, reg, logger,
//	    server.WithMetrics(adapterMetrics),
//	    server.WithUsageTracker(tracker),
//	    server.WithVersion(server.VersionInfo{Version: "1.0.0"}),
//	)
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Start blocks until ctx is cancelled or Shutdown is called. Signal
// handling belongs to the caller; pass a context wired to
// signal.NotifyContext to stop on SIGTERM/SIGINT.
//
// # Graceful Shutdown
//
// Shutdown stops accepting new connections, waits up to the configured
// shutdown timeout for in-flight requests, then forces closure. It is safe
// to call more than once; only the first call does work.
//
// # Routes
//
//   - GET /health   - Liveness probe (always 200 while the process runs)
//   - GET /ready    - Readiness probe (503 unless a healthy adapter exists)
//   - GET /adapters - Per-adapter availability, health, and breaker state
//   - GET /version  - Build information
//   - GET /usage    - Aggregated token usage (when a tracker is attached)
//   - GET /metrics  - Prometheus exposition (when metrics are attached)
//
// /usage and /metrics are registered only when the corresponding option is
// supplied; without it the path is a plain 404.
//
// # Thread Safety
//
// All server operations are safe for concurrent use.
package server
