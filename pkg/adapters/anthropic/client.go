package anthropic

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"helios-labs/prism/pkg/adapters"
)

const (
	// DefaultBaseURL is Anthropic's API endpoint.
	DefaultBaseURL = "https://api.anthropic.com"

	// APIVersion is the messages API version sent on every request.
	APIVersion = "2023-06-01"
)

var errNoContent = errors.New("response contained no text content")

// Adapter speaks the Anthropic messages API.
type Adapter struct {
	*adapters.HTTPAdapter
}

var _ adapters.Adapter = (*Adapter)(nil)

// New creates an Anthropic adapter. The configuration must carry a name,
// a model, and an API key.
func New(cfg adapters.Config, logger *slog.Logger) (*Adapter, error) {
	if cfg.Name == "" {
		return nil, &adapters.ConfigError{
			Provider: "anthropic",
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
		cfg.Type = adapters.TypeAnthropic
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	a := &Adapter{
		HTTPAdapter: adapters.NewHTTPAdapter(cfg, logger),
	}
	a.SetProbe(a.probe)

	a.Logger().Info("anthropic adapter initialized",
		"base_url", cfg.BaseURL,
		"model", cfg.Model,
		"api_version", APIVersion,
	)

	return a, nil
}

// GenerateResponse sends one messages API call through the resilience
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
	msgReq := buildRequest(cfg, req)
	url := cfg.BaseURL + "/v1/messages"
	headers := a.authHeaders()

	var msgResp MessagesResponse
	err := a.Execute(ctx, "generate", func(ctx context.Context) error {
		return a.DoJSONRequest(ctx, http.MethodPost, url, msgReq, &msgResp, headers)
	})
	if err != nil {
		a.RecordUsage(adapters.TokenUsage{}, true)
		return nil, err
	}

	resp, err := a.normalize(req, &msgResp)
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
		"stop_reason", resp.FinishReason,
		"latency", resp.Latency,
	)

	return resp, nil
}

// normalize maps the wire response onto AIResponse, falling back to the
// heuristic estimator when the usage block is empty.
func (a *Adapter) normalize(req *adapters.GenerateRequest, raw *MessagesResponse) (*adapters.AIResponse, error) {
	content := contentText(raw.Content)
	if content == "" {
		return nil, &adapters.ParseError{
			Provider: a.GetName(),
			Cause:    errNoContent,
		}
	}

	finishReason := normalizeStopReason(raw.StopReason)
	if finishReason == "length" {
		a.Logger().Warn("completion truncated by max_tokens",
			"model", raw.Model,
		)
	}

	model := raw.Model
	if model == "" {
		model = a.GetModel()
	}

	completionTokens := raw.Usage.OutputTokens
	if completionTokens == 0 {
		completionTokens = a.EstimateTokens(content)
	}
	contextUsed := raw.Usage.InputTokens
	if contextUsed == 0 {
		contextUsed = a.EstimatePrompt(req)
	}

	return &adapters.AIResponse{
		Content:      content,
		Model:        model,
		Tokens:       completionTokens,
		ReplyTo:      append([]string(nil), req.ReplyTo...),
		ContextUsed:  contextUsed,
		FinishReason: finishReason,
		Usage: adapters.TokenUsage{
			PromptTokens:     contextUsed,
			CompletionTokens: completionTokens,
			TotalTokens:      contextUsed + completionTokens,
		},
	}, nil
}

// probe checks the models listing endpoint with the full auth headers.
func (a *Adapter) probe(ctx context.Context) error {
	resp, err := a.DoRequest(ctx, http.MethodGet, a.GetConfig().BaseURL+"/v1/models", nil, a.authHeaders())
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (a *Adapter) authHeaders() map[string]string {
	return map[string]string{
		"x-api-key":         a.GetConfig().APIKey,
		"anthropic-version": APIVersion,
	}
}
