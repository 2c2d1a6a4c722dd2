package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"helios-labs/prism/pkg/adapters"
	"helios-labs/prism/pkg/cli"
	"helios-labs/prism/pkg/registry"
)

var probeFlags struct {
	adapter string
	timeout time.Duration
	jsonOut bool
}

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Probe provider endpoints",
	Long: `Run one on-demand health check against each registered adapter.

Probes run concurrently and report per-adapter latency and failure
detail. Without --adapter, every registered adapter is probed;
unavailable ones (placeholders, missing credentials) are skipped rather
than counted as failures. Naming an adapter probes it regardless.

The command exits non-zero when any executed probe fails.

Examples:
  # Probe everything
  prism probe

  # Probe one adapter with a tight deadline
  prism probe --adapter openai --timeout 5s

  # JSON for monitoring scripts
  prism probe --json`,
	Args: usageArgs(cobra.NoArgs),
	RunE: probeAdapters,
}

func init() {
	rootCmd.AddCommand(probeCmd)

	probeCmd.Flags().StringVarP(&probeFlags.adapter, "adapter", "a", "", "probe a single adapter")
	probeCmd.Flags().DurationVar(&probeFlags.timeout, "timeout", 30*time.Second, "deadline for all probes")
	probeCmd.Flags().BoolVar(&probeFlags.jsonOut, "json", false, "output as JSON")
}

// probeResult is one adapter's probe outcome.
type probeResult struct {
	Name       string  `json:"name"`
	Available  bool    `json:"available"`
	Healthy    bool    `json:"healthy"`
	Skipped    bool    `json:"skipped,omitempty"`
	DurationMS float64 `json:"duration_ms"`
	Error      string  `json:"error,omitempty"`
}

func probeAdapters(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	reg := registry.New(cfg, logger)
	defer reg.Close()

	var targets []adapters.Adapter
	skipUnavailable := false
	if probeFlags.adapter != "" {
		a, ok := reg.GetAdapter(probeFlags.adapter)
		if !ok {
			return cli.NewUnavailableError(probeFlags.adapter,
				"not registered or failed to construct (check the name and credentials)")
		}
		targets = []adapters.Adapter{a}
	} else {
		targets = reg.GetAllAdapters()
		skipUnavailable = true
		if len(targets) == 0 {
			return fmt.Errorf("no adapters registered (configure default models or aliases)")
		}
	}

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, probeFlags.timeout)
	defer cancel()

	results := make([]probeResult, len(targets))
	var wg sync.WaitGroup
	for i, a := range targets {
		if skipUnavailable && !a.IsAvailable() {
			results[i] = probeResult{Name: a.GetName(), Skipped: true}
			continue
		}

		wg.Add(1)
		go func(i int, a adapters.Adapter) {
			defer wg.Done()

			start := time.Now()
			probeErr := a.HealthCheck(ctx)

			res := probeResult{
				Name:       a.GetName(),
				Available:  a.IsAvailable(),
				Healthy:    probeErr == nil,
				DurationMS: float64(time.Since(start).Microseconds()) / 1000.0,
			}
			if probeErr != nil {
				res.Error = probeErr.Error()
			}
			results[i] = res
		}(i, a)
	}
	wg.Wait()

	executed, failed := 0, 0
	for _, r := range results {
		if r.Skipped {
			continue
		}
		executed++
		if !r.Healthy {
			failed++
		}
	}

	if probeFlags.jsonOut {
		if err := cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, results); err != nil {
			return err
		}
	} else {
		fmt.Printf("Probing %d adapter(s)...\n\n", len(targets))
		for _, r := range results {
			switch {
			case r.Skipped:
				fmt.Printf("- %s: skipped (unavailable)\n", r.Name)
			case r.Healthy:
				fmt.Printf("✓ %s (%.0f ms)\n", r.Name, r.DurationMS)
			default:
				fmt.Printf("✗ %s (%.0f ms): %s\n", r.Name, r.DurationMS, r.Error)
			}
		}
		fmt.Println()
		fmt.Printf("%d/%d healthy\n", executed-failed, executed)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d probes failed", failed, executed)
	}
	return nil
}
