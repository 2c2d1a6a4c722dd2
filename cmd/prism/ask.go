package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"helios-labs/prism/pkg/adapters"
	"helios-labs/prism/pkg/cli"
	"helios-labs/prism/pkg/registry"
)

var askFlags struct {
	adapter string
	system  string
	timeout time.Duration
	jsonOut bool
}

var askCmd = &cobra.Command{
	Use:   "ask [prompt...]",
	Short: "Send a one-shot prompt through an adapter",
	Long: `Send a single prompt through a named adapter and print the response.

The adapter name may be a provider with a default model ("openai"), an
alias ("claude"), or a composite id ("anthropic/claude-3-5-sonnet").
The prompt comes from the remaining arguments, or from stdin when piped.

The call goes through the full resilience pipeline: transient provider
failures are retried with exponential backoff, and a tripped circuit
breaker fails fast without contacting the provider.

Examples:
  # Prompt from arguments
  prism ask --adapter claude "Explain circuit breakers"

  # Prompt from stdin
  cat notes.txt | prism ask --adapter openai/gpt-4o --system "Summarize"

  # Bounded end-to-end, full response as JSON
  prism ask --adapter claude --timeout 30s --json "Hello"`,
	Args: cobra.ArbitraryArgs,
	RunE: askAdapter,
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringVarP(&askFlags.adapter, "adapter", "a", "", "adapter name (provider, alias, or provider/model)")
	askCmd.Flags().StringVarP(&askFlags.system, "system", "s", "", "system prompt")
	askCmd.Flags().DurationVar(&askFlags.timeout, "timeout", 0, "overall deadline (0 uses the adapter timeout)")
	askCmd.Flags().BoolVar(&askFlags.jsonOut, "json", false, "print the full response as JSON")
}

func askAdapter(cmd *cobra.Command, args []string) error {
	if askFlags.adapter == "" {
		return cli.NewUsageError("--adapter is required")
	}

	prompt := strings.TrimSpace(strings.Join(args, " "))
	if prompt == "" {
		piped, err := readStdinPrompt()
		if err != nil {
			return err
		}
		prompt = piped
	}
	if prompt == "" {
		return cli.NewUsageError("prompt is required (pass arguments or pipe stdin)")
	}

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

	adapter, ok := reg.GetAdapter(askFlags.adapter)
	if !ok {
		return cli.NewUnavailableError(askFlags.adapter,
			"not registered or failed to construct (check the name and credentials)")
	}
	if !adapter.IsAvailable() {
		return cli.NewUnavailableError(adapter.GetName(),
			"cannot serve requests (not implemented or missing credentials)")
	}

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
	if askFlags.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, askFlags.timeout)
		defer cancel()
	}

	req := &adapters.GenerateRequest{
		Messages: []adapters.Message{
			{AuthorType: adapters.AuthorUser, Content: prompt},
		},
		SystemPrompt: askFlags.system,
	}

	resp, err := adapter.GenerateResponse(ctx, req)
	if err != nil {
		return err
	}

	if askFlags.jsonOut {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, resp)
	}

	fmt.Println(resp.Content)
	if verbose {
		fmt.Fprintf(os.Stderr, "model=%s tokens=%d context_used=%d latency=%s\n",
			resp.Model, resp.Tokens, resp.ContextUsed, resp.Latency.Round(time.Millisecond))
	}
	return nil
}

// readStdinPrompt returns piped stdin content, or "" when stdin is a
// terminal.
func readStdinPrompt() (string, error) {
	info, err := os.Stdin.Stat()
	if err != nil {
		return "", fmt.Errorf("stat stdin: %w", err)
	}
	if info.Mode()&os.ModeCharDevice != 0 {
		return "", nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
