package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	mock "helios-labs/prism/internal/adapters"
	"helios-labs/prism/pkg/adapters"
	"helios-labs/prism/pkg/adapters/openai"
)

func TestNewDefaults(t *testing.T) {
	cfg := mock.TestConfig("openrouter/claude", "", "anthropic/claude-3.5-sonnet")
	cfg.BaseURL = ""

	adapter, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer adapter.Close()

	got := adapter.GetConfig()
	if got.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", got.BaseURL, DefaultBaseURL)
	}
	if adapter.GetType() != adapters.TypeOpenRouter {
		t.Errorf("GetType() = %q, want %q", adapter.GetType(), adapters.TypeOpenRouter)
	}
	if got.Headers[refererHeader] != defaultReferer {
		t.Errorf("HTTP-Referer = %q, want default attribution", got.Headers[refererHeader])
	}
	if got.Headers[titleHeader] != defaultTitle {
		t.Errorf("X-Title = %q, want default attribution", got.Headers[titleHeader])
	}
}

func TestNewValidation(t *testing.T) {
	cfg := mock.TestConfig("", adapters.TypeOpenRouter, "anthropic/claude-3.5-sonnet")
	_, err := New(cfg, nil)

	var configErr *adapters.ConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("New() error = %T (%v), want *ConfigError", err, err)
	}
	if configErr.Provider != "openrouter" || configErr.Field != "name" {
		t.Errorf("ConfigError = %+v, want openrouter/name", configErr)
	}

	cfg = mock.TestConfig("openrouter/claude", adapters.TypeOpenRouter, "anthropic/claude-3.5-sonnet")
	cfg.APIKey = ""
	_, err = New(cfg, nil)
	if !errors.As(err, &configErr) {
		t.Fatalf("New() error = %T (%v), want *ConfigError", err, err)
	}
	if configErr.Field != "api_key" {
		t.Errorf("field = %q, want api_key", configErr.Field)
	}
}

func TestNewPreservesCallerHeaders(t *testing.T) {
	original := map[string]string{refererHeader: "https://example.com/myapp"}
	cfg := mock.TestConfig("openrouter/claude", adapters.TypeOpenRouter, "anthropic/claude-3.5-sonnet")
	cfg.Headers = original

	adapter, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer adapter.Close()

	if got := adapter.GetConfig().Headers[refererHeader]; got != "https://example.com/myapp" {
		t.Errorf("HTTP-Referer = %q, want caller's value kept", got)
	}
	if len(original) != 1 {
		t.Errorf("caller's header map mutated: %v", original)
	}
}

func TestGenerateResponseSendsAttributionHeaders(t *testing.T) {
	server := mock.NewMockServer()
	defer server.Close()
	server.SetResponse("/v1/chat/completions", mock.MockResponse{
		StatusCode: http.StatusOK,
		Body:       mock.OpenAIResponse("Routed reply.", "anthropic/claude-3.5-sonnet"),
	})

	adapter, err := New(mock.TestConfigWithURL("openrouter/claude", adapters.TypeOpenRouter, "anthropic/claude-3.5-sonnet", server.URL()), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer adapter.Close()

	resp, err := adapter.GenerateResponse(context.Background(), mock.GenerateRequest("", mock.UserMessage("m1", "Hi")))
	if err != nil {
		t.Fatalf("GenerateResponse() error = %v", err)
	}
	if resp.Content != "Routed reply." {
		t.Errorf("Content = %q", resp.Content)
	}

	httpReq, body := server.LastRequest()
	if got := httpReq.Header.Get(refererHeader); got != defaultReferer {
		t.Errorf("HTTP-Referer = %q, want %q", got, defaultReferer)
	}
	if got := httpReq.Header.Get(titleHeader); got != defaultTitle {
		t.Errorf("X-Title = %q, want %q", got, defaultTitle)
	}
	if got := httpReq.Header.Get("Authorization"); got != "Bearer test-key" {
		t.Errorf("Authorization = %q", got)
	}

	// Composite model ids pass through untouched.
	var wire openai.ChatRequest
	if err := json.Unmarshal(body, &wire); err != nil {
		t.Fatalf("request body: %v", err)
	}
	if wire.Model != "anthropic/claude-3.5-sonnet" {
		t.Errorf("wire model = %q, want composite id untouched", wire.Model)
	}
}
