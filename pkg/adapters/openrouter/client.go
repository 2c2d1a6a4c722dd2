package openrouter

import (
	"log/slog"

	"helios-labs/prism/pkg/adapters"
	"helios-labs/prism/pkg/adapters/openai"
)

// DefaultBaseURL is OpenRouter's API endpoint.
const DefaultBaseURL = "https://openrouter.ai/api"

// Attribution headers, used by OpenRouter for app rankings. Overridable
// through Config.Headers.
const (
	refererHeader  = "HTTP-Referer"
	titleHeader    = "X-Title"
	defaultReferer = "https://github.com/helios-labs/prism"
	defaultTitle   = "prism"
)

// Adapter speaks the chat completions protocol against OpenRouter.
type Adapter struct {
	*openai.Adapter
}

var _ adapters.Adapter = (*Adapter)(nil)

// New creates an OpenRouter adapter. The configuration must carry a name,
// a model (composite ids welcome), and an API key.
func New(cfg adapters.Config, logger *slog.Logger) (*Adapter, error) {
	if cfg.Name == "" {
		return nil, &adapters.ConfigError{
			Provider: "openrouter",
			Field:    "name",
			Message:  "adapter name is required",
		}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.Type = adapters.TypeOpenRouter

	// Copy before mutating; the caller owns the original map.
	headers := make(map[string]string, len(cfg.Headers)+2)
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	if _, ok := headers[refererHeader]; !ok {
		headers[refererHeader] = defaultReferer
	}
	if _, ok := headers[titleHeader]; !ok {
		headers[titleHeader] = defaultTitle
	}
	cfg.Headers = headers

	inner, err := openai.New(cfg, logger)
	if err != nil {
		return nil, err
	}

	a := &Adapter{Adapter: inner}

	a.Logger().Info("openrouter adapter initialized",
		"base_url", cfg.BaseURL,
		"model", cfg.Model,
	)

	return a, nil
}
