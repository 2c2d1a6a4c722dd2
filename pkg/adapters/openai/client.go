package openai

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"helios-labs/prism/pkg/adapters"
)

// DefaultBaseURL is OpenAI's API endpoint. Override BaseURL for
// compatible gateways and local inference servers.
const DefaultBaseURL = "https://api.openai.com"

var errNoChoices = errors.New("response contained no choices")

// Adapter speaks the OpenAI chat completions protocol.
type Adapter struct {
	*adapters.HTTPAdapter
}

var _ adapters.Adapter = (*Adapter)(nil)

// New creates an OpenAI-compatible adapter. The configuration must carry a
// name, a model, and an API key.
func New(cfg adapters.Config, logger *slog.Logger) (*Adapter, error) {
	if cfg.Name == "" {
		return nil, &adapters.ConfigError{
			Provider: "openai",
			Field:    "name",
			Message:  "adapter name is required",
		}
	}
	if cfg.Model == "" {
		return nil, &adapters.ConfigError{
			Provider: cfg.Name,
			Field:    "model",
			Message:  "model is required",
		}
	}
	if cfg.APIKey == "" {
		return nil, &adapters.ConfigError{
			Provider: cfg.Name,
			Field:    "api_key",
			Message:  "API key is required",
		}
	}
	if cfg.Type == "" {
		cfg.Type = adapters.TypeOpenAI
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	a := &Adapter{
		HTTPAdapter: adapters.NewHTTPAdapter(cfg, logger),
	}
	a.SetProbe(a.probe)

	a.Logger().Info("openai adapter initialized",
		"base_url", cfg.BaseURL,
		"model", cfg.Model,
	)

	return a, nil
}

// GenerateResponse sends one chat completion call through the resilience
// pipeline and normalizes the result.
func (a *Adapter) GenerateResponse(ctx context.Context, req *adapters.GenerateRequest) (*adapters.AIResponse, error) {
	if req == nil {
		return nil, &adapters.TerminalError{
			Provider: a.GetName(),
			Message:  "request is required",
		}
	}

	start := time.Now()
	cfg := a.GetConfig()
	chatReq := buildRequest(cfg, req)
	url := cfg.BaseURL + "/v1/chat/completions"
	headers := map[string]string{
		"Authorization": "Bearer " + cfg.APIKey,
	}

	var chatResp ChatResponse
	err := a.Execute(ctx, "generate", func(ctx context.Context) error {
		return a.DoJSONRequest(ctx, http.MethodPost, url, chatReq, &chatResp, headers)
	})
	if err != nil {
		a.RecordUsage(adapters.TokenUsage{}, true)
		return nil, err
	}

	resp, err := a.normalize(req, &chatResp)
	if err != nil {
		a.RecordUsage(adapters.TokenUsage{}, true)
		return nil, err
	}
	a.Stamp(resp, start)
	a.RecordUsage(resp.Usage, false)

	a.Logger().Debug("completion succeeded",
		"model", resp.Model,
		"tokens", resp.Tokens,
		"context_used", resp.ContextUsed,
		"latency", resp.Latency,
	)

	return resp, nil
}

// normalize maps the wire response onto AIResponse, falling back to the
// heuristic estimator when the endpoint reports no usage.
func (a *Adapter) normalize(req *adapters.GenerateRequest, raw *ChatResponse) (*adapters.AIResponse, error) {
	if len(raw.Choices) == 0 {
		return nil, &adapters.ParseError{
			Provider: a.GetName(),
			Cause:    errNoChoices,
		}
	}
	choice := raw.Choices[0]

	if choice.FinishReason == "length" {
		a.Logger().Warn("completion truncated by max_tokens",
			"model", raw.Model,
		)
	}

	model := raw.Model
	if model == "" {
		model = a.GetModel()
	}

	completionTokens := raw.Usage.CompletionTokens
	if completionTokens == 0 {
		completionTokens = a.EstimateTokens(choice.Message.Content)
	}
	contextUsed := raw.Usage.PromptTokens
	if contextUsed == 0 {
		contextUsed = a.EstimatePrompt(req)
	}

	usage := adapters.TokenUsage{
		PromptTokens:     contextUsed,
		CompletionTokens: completionTokens,
		TotalTokens:      raw.Usage.TotalTokens,
	}
	if usage.TotalTokens == 0 {
		usage.TotalTokens = contextUsed + completionTokens
	}

	return &adapters.AIResponse{
		Content:      choice.Message.Content,
		Model:        model,
		Tokens:       completionTokens,
		ReplyTo:      append([]string(nil), req.ReplyTo...),
		ContextUsed:  contextUsed,
		FinishReason: choice.FinishReason,
		Usage:        usage,
	}, nil
}

// probe checks the models listing endpoint, which responds fast and
// validates the credential.
func (a *Adapter) probe(ctx context.Context) error {
	cfg := a.GetConfig()
	headers := map[string]string{
		"Authorization": "Bearer " + cfg.APIKey,
	}

	resp, err := a.DoRequest(ctx, http.MethodGet, cfg.BaseURL+"/v1/models", nil, headers)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
