package config

import (
	"os"
	"path/filepath"
	"testing"
)

func BenchmarkLoadConfig(b *testing.B) {
	path := filepath.Join(b.TempDir(), "prism.yaml")
	content := []byte(`
logging:
  level: "info"
resilience:
  max_retries: 3
  retryable_errors: ["rate_limit", "timeout", "server_error"]
providers:
  - name: "openai"
    api_key: "k"
    default_model: "gpt-4o"
  - name: "anthropic"
    api_key: "k"
    default_model: "claude-3-5-sonnet"
aliases:
  - name: "claude"
    model: "anthropic/claude-3-5-sonnet"
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := LoadConfig(path); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkValidate(b *testing.B) {
	cfg := Default()
	cfg.Providers = []ProviderConfig{
		{Name: "openai", Type: "openai", APIKey: "k"},
		{Name: "anthropic", Type: "anthropic", APIKey: "k"},
	}
	cfg.Aliases = []AliasConfig{{Name: "claude", Model: "anthropic/claude-3-5-sonnet"}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := Validate(cfg); err != nil {
			b.Fatal(err)
		}
	}
}
