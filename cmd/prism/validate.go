package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"helios-labs/prism/pkg/adapters"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Load and validate a Prism configuration file.

The validate command parses the file, applies defaults and environment
overrides, and runs the full validation pass. All problems are reported
at once, not just the first.

Missing API keys are not validation errors (they may arrive through the
environment at runtime), but validate warns about providers that have
none configured anywhere.

Examples:
  # Validate the default config file
  prism validate

  # Validate a specific file
  prism validate --config /etc/prism/prism.yaml`,
	Args: usageArgs(cobra.NoArgs),
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("Validating %s...\n", cfgFile)
	fmt.Println("✓ Configuration valid")
	fmt.Println()
	fmt.Printf("Providers: %d\n", len(cfg.Providers))
	for _, p := range cfg.Providers {
		line := fmt.Sprintf("  - %s (type %s", p.Name, p.Type)
		if p.DefaultModel != "" {
			line += ", default model " + p.DefaultModel
		}
		line += ")"
		fmt.Println(line)

		if p.APIKey == "" && p.Type != adapters.TypeGemini {
			envKey := "PRISM_PROVIDERS_" + strings.ReplaceAll(strings.ToUpper(p.Name), "-", "_") + "_API_KEY"
			fmt.Printf("    ⚠ no API key configured (set %s)\n", envKey)
		}
	}

	fmt.Printf("Aliases: %d\n", len(cfg.Aliases))
	for _, a := range cfg.Aliases {
		fmt.Printf("  - %s -> %s\n", a.Name, a.Model)
	}

	return nil
}
