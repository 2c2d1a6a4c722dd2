package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"helios-labs/prism/pkg/cli"
	"helios-labs/prism/pkg/registry"
)

var modelsFlags struct {
	jsonOut bool
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List configured providers and aliases",
	Long: `List every configured provider and alias with its resolution state.

For each entry the listing shows the provider type, the model it resolves
to, whether the adapter is available (credentialed and implemented), and
the circuit breaker state. Providers without a default model are listed
but have no adapter instance until a composite id ("provider/model") is
requested.

Examples:
  # Human-readable table
  prism models

  # JSON for scripting
  prism models --json`,
	Args: usageArgs(cobra.NoArgs),
	RunE: listModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)

	modelsCmd.Flags().BoolVar(&modelsFlags.jsonOut, "json", false, "output as JSON")
}

// modelEntry is one row in the models listing.
type modelEntry struct {
	Name          string `json:"name"`
	Kind          string `json:"kind"`
	Type          string `json:"type,omitempty"`
	Model         string `json:"model,omitempty"`
	ContextWindow int    `json:"context_window,omitempty"`
	Available     bool   `json:"available"`
	Breaker       string `json:"breaker,omitempty"`
}

func listModels(cmd *cobra.Command, args []string) error {
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

	entries := make([]modelEntry, 0, len(cfg.Providers)+len(cfg.Aliases))

	for _, p := range cfg.Providers {
		entry := modelEntry{
			Name:          p.Name,
			Kind:          "provider",
			Type:          p.Type,
			Model:         p.DefaultModel,
			ContextWindow: p.ContextWindow,
		}
		if p.DefaultModel != "" {
			if a, ok := reg.GetAdapter(p.Name); ok {
				entry.Available = a.IsAvailable()
				entry.Breaker = a.BreakerSnapshot().StateName
			}
		}
		entries = append(entries, entry)
	}

	for _, al := range cfg.Aliases {
		entry := modelEntry{
			Name:  al.Name,
			Kind:  "alias",
			Model: al.Model,
		}
		if a, ok := reg.GetAdapter(al.Name); ok {
			entry.Type = a.GetType()
			entry.Available = a.IsAvailable()
			entry.Breaker = a.BreakerSnapshot().StateName
		}
		entries = append(entries, entry)
	}

	if modelsFlags.jsonOut {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, entries)
	}

	fmt.Printf("%-16s %-9s %-11s %-30s %-9s %-9s %s\n",
		"NAME", "KIND", "TYPE", "MODEL", "AVAILABLE", "BREAKER", "CONTEXT")
	for _, e := range entries {
		fmt.Printf("%-16s %-9s %-11s %-30s %-9t %-9s %s\n",
			e.Name, e.Kind, orDash(e.Type), orDash(e.Model), e.Available,
			orDash(e.Breaker), contextColumn(e.ContextWindow))
	}

	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func contextColumn(window int) string {
	if window <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d", window)
}
