package gemini

import (
	"context"
	"log/slog"

	"helios-labs/prism/pkg/adapters"
)

// Adapter is the gemini placeholder. Generation always fails with
// *adapters.UnimplementedError.
type Adapter struct {
	*adapters.HTTPAdapter
}

var _ adapters.Adapter = (*Adapter)(nil)

// New creates the placeholder. Unlike the real adapters it never fails:
// missing configuration is logged, not rejected, so a registry can hold
// the slot without special-casing it.
func New(cfg adapters.Config, logger *slog.Logger) (*Adapter, error) {
	if cfg.Name == "" {
		cfg.Name = "gemini"
	}
	if cfg.Type == "" {
		cfg.Type = adapters.TypeGemini
	}

	a := &Adapter{
		HTTPAdapter: adapters.NewHTTPAdapter(cfg, logger),
	}
	a.SetProbe(func(ctx context.Context) error {
		return a.unimplemented("HealthCheck")
	})

	if cfg.APIKey == "" || cfg.Model == "" {
		a.Logger().Warn("gemini adapter constructed with incomplete configuration",
			"has_api_key", cfg.APIKey != "",
			"model", cfg.Model,
		)
	}
	a.Logger().Warn("gemini adapter is a placeholder; generation is not implemented")

	return a, nil
}

// GenerateResponse always fails, regardless of configuration.
func (a *Adapter) GenerateResponse(ctx context.Context, req *adapters.GenerateRequest) (*adapters.AIResponse, error) {
	return nil, a.unimplemented("GenerateResponse")
}

// IsAvailable is always false; the placeholder can never serve traffic.
func (a *Adapter) IsAvailable() bool {
	return false
}

func (a *Adapter) unimplemented(op string) error {
	return &adapters.UnimplementedError{
		Provider:  a.GetName(),
		Operation: op,
	}
}
