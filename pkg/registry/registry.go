package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"helios-labs/prism/pkg/adapters"
	"helios-labs/prism/pkg/adapters/anthropic"
	"helios-labs/prism/pkg/adapters/gemini"
	"helios-labs/prism/pkg/adapters/openai"
	"helios-labs/prism/pkg/adapters/openrouter"
	"helios-labs/prism/pkg/config"
	"helios-labs/prism/pkg/telemetry/metrics"
	"helios-labs/prism/pkg/telemetry/tracing"
	"helios-labs/prism/pkg/usage"
)

// Option configures a Registry.
type Option func(*Registry)

// WithMetrics attaches Prometheus metrics to every adapter the registry
// constructs.
func WithMetrics(m *metrics.AdapterMetrics) Option {
	return func(r *Registry) { r.metrics = m }
}

// WithTracer attaches an OpenTelemetry tracer to every adapter the registry
// constructs.
func WithTracer(tr *tracing.Tracer) Option {
	return func(r *Registry) { r.tracer = tr }
}

// WithUsageTracker attaches a usage tracker to every adapter the registry
// constructs.
func WithUsageTracker(u *usage.Tracker) Option {
	return func(r *Registry) { r.usage = u }
}

// WithHealthChecks starts a background health checker on every adapter the
// registry constructs. Checkers stop when ctx is cancelled or the adapter is
// closed. Without this option the registry starts no goroutines.
func WithHealthChecks(ctx context.Context) Option {
	return func(r *Registry) { r.healthCtx = ctx }
}

// Registry owns the adapter cache. Lookups are case-insensitive and identity
// is stable: repeated lookups for the same name, in any case, return the same
// instance. Unknown composite ids ("provider/model") are constructed lazily
// from the matching provider credential template.
//
// Registry is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]adapters.Adapter

	cfg    *config.Config
	logger *slog.Logger

	metrics   *metrics.AdapterMetrics
	tracer    *tracing.Tracer
	usage     *usage.Tracker
	healthCtx context.Context
}

// New creates a registry seeded from cfg: every provider with a default
// model is registered under its bare name, and every alias is resolved and
// registered eagerly. Seeding failures (missing credentials, unknown
// providers) are logged and skipped, never fatal, so one bad entry cannot
// take down the rest.
//
// cfg may be nil, leaving a purely manual registry driven by Register.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	r := &Registry{
		adapters: make(map[string]adapters.Adapter),
		cfg:      cfg,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.seed()
	return r
}

// seed eagerly registers configured providers and aliases.
func (r *Registry) seed() {
	if r.cfg == nil {
		return
	}

	for _, p := range r.cfg.Providers {
		if p.DefaultModel == "" {
			continue
		}
		id := p.Name + "/" + p.DefaultModel
		a, err := r.construct(id)
		if err != nil {
			r.logger.Warn("skipping provider registration",
				"provider", p.Name,
				"error", err,
			)
			continue
		}
		r.insert(p.Name, a)
		r.insert(id, a)
	}

	for _, alias := range r.cfg.Aliases {
		a, err := r.construct(alias.Model)
		if err != nil {
			r.logger.Warn("skipping alias registration",
				"alias", alias.Name,
				"model", alias.Model,
				"error", err,
			)
			continue
		}
		r.insert(alias.Name, a)
		r.insert(alias.Model, a)
		r.logger.Info("alias registered",
			"alias", alias.Name,
			"model", alias.Model,
		)
	}
}

// GetAdapter returns the adapter registered under name. Lookup tries the
// exact key, then the lowercase key. On a miss, a composite id
// ("provider/model") is constructed from the matching provider template and
// cached; repeated lookups return that same instance. Construction failures
// are logged and reported as absent, never as errors. A miss without a
// separator is simply absent.
func (r *Registry) GetAdapter(name string) (adapters.Adapter, bool) {
	r.mu.RLock()
	if a, ok := r.lookup(name); ok {
		r.mu.RUnlock()
		return a, true
	}
	r.mu.RUnlock()

	if !strings.Contains(name, "/") {
		return nil, false
	}

	// Construct under the write lock so concurrent first lookups build
	// exactly one instance.
	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := r.lookup(name); ok {
		return a, true
	}

	a, err := r.construct(name)
	if err != nil {
		r.logger.Warn("failed to construct adapter",
			"id", name,
			"error", err,
		)
		return nil, false
	}

	r.adapters[name] = a
	r.adapters[strings.ToLower(name)] = a

	r.logger.Info("adapter constructed",
		"id", name,
		"type", a.GetType(),
		"model", a.GetModel(),
	)
	return a, true
}

// lookup checks the exact key then the lowercase key. Callers hold r.mu.
func (r *Registry) lookup(name string) (adapters.Adapter, bool) {
	if a, ok := r.adapters[name]; ok {
		return a, true
	}
	a, ok := r.adapters[strings.ToLower(name)]
	return a, ok
}

// construct builds an adapter for a composite id from its provider's
// credential template. It attaches instrumentation and, when enabled,
// starts the background health checker.
func (r *Registry) construct(id string) (adapters.Adapter, error) {
	providerName, model, ok := strings.Cut(id, "/")
	if !ok || providerName == "" || model == "" {
		return nil, fmt.Errorf("%q is not a composite id", id)
	}
	if r.cfg == nil {
		return nil, fmt.Errorf("no provider %q configured", providerName)
	}

	tpl, found := r.cfg.Provider(providerName)
	if !found {
		return nil, fmt.Errorf("no provider %q configured", providerName)
	}

	acfg := r.adapterConfig(tpl, id, model)

	var (
		a   adapters.Adapter
		err error
	)
	switch tpl.Type {
	case adapters.TypeOpenAI:
		a, err = openai.New(acfg, r.logger)
	case adapters.TypeAnthropic:
		a, err = anthropic.New(acfg, r.logger)
	case adapters.TypeOpenRouter:
		a, err = openrouter.New(acfg, r.logger)
	case adapters.TypeGemini:
		a, err = gemini.New(acfg, r.logger)
	default:
		return nil, &adapters.ConfigError{
			Provider: tpl.Name,
			Field:    "type",
			Message:  fmt.Sprintf("unsupported provider type %q", tpl.Type),
		}
	}
	if err != nil {
		return nil, err
	}

	type instrumenter interface {
		Instrument(*metrics.AdapterMetrics, *tracing.Tracer, *usage.Tracker)
	}
	if ins, ok := a.(instrumenter); ok {
		ins.Instrument(r.metrics, r.tracer, r.usage)
	}

	if r.healthCtx != nil {
		a.StartHealthChecker(r.healthCtx)
	}

	return a, nil
}

// adapterConfig maps a provider template onto one adapter's configuration,
// overlaying the provider's resilience overrides on the global defaults.
func (r *Registry) adapterConfig(tpl config.ProviderConfig, name, model string) adapters.Config {
	res := config.MergeResilience(r.cfg.Resilience, tpl.Resilience)

	return adapters.Config{
		Name:                name,
		Type:                tpl.Type,
		Model:               model,
		BaseURL:             tpl.BaseURL,
		APIKey:              tpl.APIKey,
		Timeout:             tpl.Timeout,
		MaxTokens:           tpl.MaxTokens,
		Temperature:         tpl.Temperature,
		Headers:             tpl.Headers,
		MaxRetries:          res.MaxRetries,
		InitialDelay:        res.RetryDelay,
		RetryableErrors:     res.RetryableTags(),
		FailureThreshold:    res.FailureThreshold,
		ResetTimeout:        res.ResetTimeout,
		HealthCheckInterval: r.cfg.Health.Interval,
	}
}

// Register adds an adapter under name, caching it under both the given and
// lowercase keys. An existing different instance under the same name is
// replaced and closed.
func (r *Registry) Register(name string, a adapters.Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insertLocked(name, a)
}

// insert is Register without caller-held locking, used during seeding.
func (r *Registry) insert(name string, a adapters.Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insertLocked(name, a)
}

func (r *Registry) insertLocked(name string, a adapters.Adapter) {
	if existing, ok := r.lookup(name); ok && existing != a {
		r.logger.Warn("replacing registered adapter", "name", name)
		if !r.stillReferenced(existing, name) {
			if err := existing.Close(); err != nil {
				r.logger.Warn("failed to close replaced adapter", "name", name, "error", err)
			}
		}
	}

	r.adapters[name] = a
	r.adapters[strings.ToLower(name)] = a
}

// stillReferenced reports whether a is cached under a key other than name or
// its lowercase form. Callers hold r.mu.
func (r *Registry) stillReferenced(a adapters.Adapter, name string) bool {
	lower := strings.ToLower(name)
	for key, cached := range r.adapters {
		if key == name || key == lower {
			continue
		}
		if cached == a {
			return true
		}
	}
	return false
}

// HasAdapter reports whether name resolves in the cache, without
// constructing anything.
func (r *Registry) HasAdapter(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.lookup(name)
	return ok
}

// GetAllAdapters returns every unique cached instance, sorted by name.
func (r *Registry) GetAllAdapters() []adapters.Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.uniqueLocked()
}

// GetAvailableAdapters returns the unique cached instances that report
// themselves available, sorted by name.
func (r *Registry) GetAvailableAdapters() []adapters.Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []adapters.Adapter
	for _, a := range r.uniqueLocked() {
		if a.IsAvailable() {
			out = append(out, a)
		}
	}
	return out
}

// GetAdapterNames returns the sorted canonical (lowercase) cache keys.
func (r *Registry) GetAdapterNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		if name == strings.ToLower(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// uniqueLocked deduplicates the cache by instance. Callers hold r.mu.
func (r *Registry) uniqueLocked() []adapters.Adapter {
	seen := make(map[adapters.Adapter]bool, len(r.adapters))
	out := make([]adapters.Adapter, 0, len(r.adapters))
	for _, a := range r.adapters {
		if seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GetName() < out[j].GetName() })
	return out
}

// Close closes every unique adapter once and clears the cache. Close errors
// are logged, not returned; shutdown proceeds regardless.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.uniqueLocked() {
		if err := a.Close(); err != nil {
			r.logger.Warn("failed to close adapter", "name", a.GetName(), "error", err)
		}
	}
	r.adapters = make(map[string]adapters.Adapter)

	r.logger.Info("registry closed")
}

// reset clears the cache without closing adapters. Tests only.
func (r *Registry) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters = make(map[string]adapters.Adapter)
}
