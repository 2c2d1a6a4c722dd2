package adapters

import (
	"time"

	"helios-labs/prism/pkg/adapters"
)

// TestConfig returns an adapter configuration tuned for fast tests:
// tight timeouts, two retries, millisecond backoff.
func TestConfig(name, providerType, model string) adapters.Config {
	return adapters.Config{
		Name:                name,
		Type:                providerType,
		Model:               model,
		BaseURL:             "http://localhost:0",
		APIKey:              "test-key",
		Timeout:             5 * time.Second,
		MaxRetries:          2,
		InitialDelay:        10 * time.Millisecond,
		FailureThreshold:    3,
		ResetTimeout:        50 * time.Millisecond,
		HealthCheckInterval: time.Second,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     30 * time.Second,
	}
}

// TestConfigWithURL returns a test config pointed at a mock server.
func TestConfigWithURL(name, providerType, model, baseURL string) adapters.Config {
	config := TestConfig(name, providerType, model)
	config.BaseURL = baseURL
	return config
}

// UserMessage builds a user-authored message.
func UserMessage(id, content string) adapters.Message {
	return adapters.Message{
		ID:         id,
		AuthorType: adapters.AuthorUser,
		Content:    content,
	}
}

// AssistantMessage builds an assistant-authored message.
func AssistantMessage(id, content string) adapters.Message {
	return adapters.Message{
		ID:         id,
		AuthorType: adapters.AuthorAssistant,
		Content:    content,
	}
}

// GenerateRequest builds a request around the given messages.
func GenerateRequest(systemPrompt string, messages ...adapters.Message) *adapters.GenerateRequest {
	return &adapters.GenerateRequest{
		Messages:     messages,
		SystemPrompt: systemPrompt,
	}
}
