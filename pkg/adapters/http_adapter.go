package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"helios-labs/prism/pkg/resilience"
	"helios-labs/prism/pkg/telemetry/logging"
	"helios-labs/prism/pkg/telemetry/metrics"
	"helios-labs/prism/pkg/telemetry/tracing"
	"helios-labs/prism/pkg/tokens"
	"helios-labs/prism/pkg/usage"
)

// Connection pool and timeout defaults.
const (
	DefaultTimeout             = 60 * time.Second
	DefaultMaxIdleConns        = 100
	DefaultMaxIdleConnsPerHost = 10
	DefaultIdleConnTimeout     = 90 * time.Second
)

// unhealthyAfter is how many consecutive failures mark an adapter unhealthy.
const unhealthyAfter = 3

// HTTPAdapter is the base implementation for HTTP-backed provider adapters.
// It owns the pooled HTTP client, the resilience pipeline (circuit breaker
// around retry around one attempt), health tracking, and instrumentation.
//
// Concrete adapters (openai, anthropic, ...) embed this struct and implement
// GenerateResponse on top of Execute and DoJSONRequest.
type HTTPAdapter struct {
	config Config
	client *http.Client
	logger *slog.Logger

	breaker   *resilience.Breaker
	policy    resilience.Policy
	estimator *tokens.HeuristicEstimator

	// probe is the health check implementation. Adapters with bespoke
	// health endpoints replace it via SetProbe.
	probe func(ctx context.Context) error

	healthMu sync.RWMutex
	health   Health

	// Instrumentation, attached once via Instrument before the adapter
	// serves calls. All optional.
	metrics *metrics.AdapterMetrics
	tracer  *tracing.Tracer
	usage   *usage.Tracker

	checkerStarted     atomic.Bool
	stopHealthCheck    chan struct{}
	healthCheckStopped chan struct{}
	closeOnce          sync.Once
}

// NewHTTPAdapter creates the shared adapter base with connection pooling
// and a closed circuit breaker. Zero config fields get defaults.
func NewHTTPAdapter(cfg Config, logger *slog.Logger) *HTTPAdapter {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = resilience.DefaultMaxRetries
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = resilience.DefaultInitialDelay
	}
	if cfg.RetryableErrors == nil {
		cfg.RetryableErrors = resilience.AllTags()
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = DefaultMaxIdleConns
	}
	if cfg.MaxIdleConnsPerHost == 0 {
		cfg.MaxIdleConnsPerHost = DefaultMaxIdleConnsPerHost
	}
	if cfg.IdleConnTimeout <= 0 {
		cfg.IdleConnTimeout = DefaultIdleConnTimeout
	}

	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("adapter", cfg.Name)

	transport := &http.Transport{
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		ForceAttemptHTTP2:   true,
	}

	a := &HTTPAdapter{
		config: cfg,
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		logger: logger,
		breaker: resilience.NewBreaker(resilience.BreakerConfig{
			Name:             cfg.Name,
			FailureThreshold: cfg.FailureThreshold,
			ResetTimeout:     cfg.ResetTimeout,
			Logger:           logger,
		}),
		estimator: tokens.NewForModel(cfg.Model),
		health: Health{
			Healthy:               true, // start optimistic
			LastCheck:             time.Now(),
			LastSuccessfulRequest: time.Now(),
		},
		stopHealthCheck:    make(chan struct{}),
		healthCheckStopped: make(chan struct{}),
	}
	a.probe = a.defaultProbe

	a.policy = resilience.Policy{
		MaxRetries:      cfg.MaxRetries,
		InitialDelay:    cfg.InitialDelay,
		RetryableErrors: cfg.RetryableErrors,
		OnRetry: func(attempt int, delay time.Duration, err error) {
			a.logger.Debug("retrying request",
				"attempt", attempt,
				"max_retries", cfg.MaxRetries,
				"backoff", delay,
				"error", err,
			)
			if a.metrics != nil {
				tag, _ := resilience.TagOf(err)
				a.metrics.RecordRetry(a.config.Name, string(tag))
			}
		},
	}

	a.breaker.OnStateChange(func(from, to resilience.State) {
		if a.metrics != nil {
			a.metrics.SetBreakerState(a.config.Name, int(to))
		}
	})

	return a
}

// Instrument attaches metrics, tracing, and usage tracking. Call once,
// before the adapter serves requests. Any argument may be nil.
func (a *HTTPAdapter) Instrument(m *metrics.AdapterMetrics, tr *tracing.Tracer, u *usage.Tracker) {
	a.metrics = m
	a.tracer = tr
	a.usage = u

	if m != nil {
		m.SetBreakerState(a.config.Name, int(a.breaker.State()))
		m.UpdateHealth(a.config.Name, a.IsHealthy())
	}
}

// GetName returns the adapter's configured identity.
func (a *HTTPAdapter) GetName() string {
	return a.config.Name
}

// GetType returns the adapter's provider type.
func (a *HTTPAdapter) GetType() string {
	return a.config.Type
}

// GetModel returns the provider-side model identifier.
func (a *HTTPAdapter) GetModel() string {
	return a.config.Model
}

// GetConfig returns the adapter's configuration.
func (a *HTTPAdapter) GetConfig() Config {
	return a.config
}

// IsAvailable reports whether the adapter is credentialed and implemented.
// Placeholder adapters override this.
func (a *HTTPAdapter) IsAvailable() bool {
	return a.config.APIKey != ""
}

// IsHealthy returns the verdict of the most recent probe or request.
func (a *HTTPAdapter) IsHealthy() bool {
	a.healthMu.RLock()
	defer a.healthMu.RUnlock()
	return a.health.Healthy
}

// GetHealth returns detailed health information.
func (a *HTTPAdapter) GetHealth() Health {
	a.healthMu.RLock()
	defer a.healthMu.RUnlock()
	return a.health
}

// BreakerSnapshot returns the circuit breaker's current state for
// health reporting.
func (a *HTTPAdapter) BreakerSnapshot() resilience.Snapshot {
	return a.breaker.Snapshot()
}

// EstimateTokens approximates the token count of text using the adapter's
// per-model heuristic.
func (a *HTTPAdapter) EstimateTokens(text string) int {
	return a.estimator.Estimate(text)
}

// CheckContextWindow sums token counts across messages: the explicit count
// when a message carries one, the estimator's output otherwise. Pure and
// deterministic for identical input.
func (a *HTTPAdapter) CheckContextWindow(messages []Message) int {
	total := 0
	for _, m := range messages {
		if m.Tokens > 0 {
			total += m.Tokens
		} else {
			total += a.estimator.Estimate(m.Content)
		}
	}
	return total
}

// EstimatePrompt approximates the prompt-side token count of a request:
// the context window sum plus the system prompt. Used when the provider
// does not report usage.
func (a *HTTPAdapter) EstimatePrompt(req *GenerateRequest) int {
	total := a.CheckContextWindow(req.Messages)
	if req.SystemPrompt != "" {
		total += a.estimator.Estimate(req.SystemPrompt)
	}
	return total
}

// Stamp fills the call-scoped response metadata: a fresh id, the serving
// provider type, and timing.
func (a *HTTPAdapter) Stamp(resp *AIResponse, start time.Time) {
	resp.ID = uuid.NewString()
	resp.Provider = a.config.Type
	resp.Created = time.Now()
	resp.Latency = time.Since(start)
}

// Execute runs fn under the full resilience pipeline: the circuit breaker
// admits the call, retry-with-backoff governs attempts inside it. A call
// that exhausts every retry counts as exactly one breaker failure.
//
// op names the operation in spans and logs.
func (a *HTTPAdapter) Execute(ctx context.Context, op string, fn func(context.Context) error) error {
	// Callers may carry their own request ID; mint one otherwise so every
	// log record and span for this call correlates.
	requestID := logging.RequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
		ctx = logging.WithRequestID(ctx, requestID)
	}

	var span trace.Span
	if a.tracer != nil {
		ctx, span = a.tracer.Start(ctx, "prism.adapter."+op)
		defer span.End()
		tracing.SetAdapterAttributes(span, a.config.Name, a.config.Type, a.config.Model)
		tracing.SetRequestID(span, requestID)
	}

	if a.metrics != nil {
		a.metrics.RecordRequest(a.config.Name, a.config.Type, a.config.Model)
	}

	start := time.Now()
	err := a.breaker.Do(ctx, func(ctx context.Context) error {
		return resilience.Retry(ctx, a.policy, fn)
	})
	elapsed := time.Since(start)

	if a.metrics != nil {
		a.metrics.ObserveLatency(a.config.Name, a.config.Type, elapsed.Seconds())
		if err != nil {
			a.metrics.RecordError(a.config.Name, ErrorType(err))
		}
	}

	var open *resilience.CircuitOpenError
	switch {
	case err == nil:
		a.recordRequest(true)
		a.updateHealth(true, nil)
		a.logger.Debug("request completed",
			"request_id", requestID,
			"operation", op,
			"duration", elapsed,
		)

	case errors.Is(err, context.Canceled):
		// Caller walked away; not a provider verdict.

	case errors.As(err, &open):
		// Provider never contacted; health unchanged.
		a.logger.Debug("request rejected by circuit breaker",
			"request_id", requestID,
			"operation", op,
			"retry_after", open.RetryAfter,
		)

	default:
		a.recordRequest(false)
		a.updateHealth(false, err)
		a.logger.Warn("request failed",
			"request_id", requestID,
			"operation", op,
			"duration", elapsed,
			"error", err,
			"error_type", ErrorType(err),
		)
	}

	if span != nil && err != nil {
		tracing.SetErrorAttributes(span, err, ErrorType(err))
	}

	return err
}

// DoRequest performs one HTTP attempt and classifies the outcome. Transient
// failures come back as *TransientError so the retry policy can match their
// tags; everything else is terminal. The response is returned only on 2xx,
// with its body unread.
func (a *HTTPAdapter) DoRequest(ctx context.Context, method, url string, body []byte, headers map[string]string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, &TerminalError{
			Provider: a.config.Name,
			Message:  "failed to create request",
			Cause:    err,
		}
	}

	for key, value := range a.config.Headers {
		req.Header.Set(key, value)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if req.Header.Get("Content-Type") == "" && body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	tracing.Inject(ctx, req.Header)

	a.logger.Debug("sending request to provider",
		"method", method,
		"url", url,
	)

	resp, err := a.client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, ctx.Err()
		}
		return nil, a.classifyTransport(err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	errorBody, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	return nil, a.classifyStatus(resp.StatusCode, errorBody, resp.Header)
}

// DoJSONRequest performs one JSON attempt: marshal, send, decode.
func (a *HTTPAdapter) DoJSONRequest(ctx context.Context, method, url string, reqBody, respBody any, headers map[string]string) error {
	var bodyBytes []byte
	var err error
	if reqBody != nil {
		bodyBytes, err = json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	resp, err := a.DoRequest(ctx, method, url, bodyBytes, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	responseBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ParseError{
			Provider: a.config.Name,
			Cause:    fmt.Errorf("failed to read response: %w", err),
		}
	}

	if respBody != nil && len(responseBytes) > 0 {
		if err := json.Unmarshal(responseBytes, respBody); err != nil {
			return &ParseError{
				Provider:    a.config.Name,
				RawResponse: string(responseBytes),
				Cause:       fmt.Errorf("failed to unmarshal response: %w", err),
			}
		}
	}

	return nil
}

// classifyStatus maps a non-2xx response to the error taxonomy.
func (a *HTTPAdapter) classifyStatus(statusCode int, body []byte, header http.Header) error {
	name := a.config.Name
	message := strings.TrimSpace(string(body))
	if message == "" {
		message = http.StatusText(statusCode)
	}

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return &TerminalError{
			Provider:   name,
			StatusCode: statusCode,
			Message:    "authentication failed: " + message,
		}

	case statusCode == http.StatusRequestTimeout:
		return &TransientError{
			Provider:   name,
			Kind:       resilience.TagTimeout,
			StatusCode: statusCode,
			Message:    message,
		}

	case statusCode == http.StatusTooManyRequests:
		return &TransientError{
			Provider:   name,
			Kind:       resilience.TagRateLimit,
			StatusCode: statusCode,
			RetryAfter: ParseRetryAfter(header.Get("Retry-After")),
			Message:    message,
		}

	case statusCode >= 500:
		return &TransientError{
			Provider:   name,
			Kind:       resilience.TagServerError,
			StatusCode: statusCode,
			Message:    message,
		}

	default:
		return &TerminalError{
			Provider:   name,
			StatusCode: statusCode,
			Message:    message,
		}
	}
}

// classifyTransport maps a failed HTTP exchange (no response) to the error
// taxonomy. Network-level failures are inherently transient.
func (a *HTTPAdapter) classifyTransport(err error) error {
	name := a.config.Name

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return &TransientError{
			Provider: name,
			Kind:     resilience.TagTimeout,
			Message:  fmt.Sprintf("request timed out after %s", a.config.Timeout),
			Cause:    err,
		}

	case errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.EPIPE),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF):
		return &TransientError{
			Provider: name,
			Kind:     resilience.TagNetworkReset,
			Message:  "connection reset",
			Cause:    err,
		}

	default:
		return &TransientError{
			Provider: name,
			Kind:     resilience.TagNetworkReset,
			Message:  "connection failed",
			Cause:    err,
		}
	}
}

// RecordUsage feeds one call's token consumption into the usage tracker
// and token metrics.
func (a *HTTPAdapter) RecordUsage(u TokenUsage, failed bool) {
	if a.usage != nil {
		a.usage.Record(usage.Sample{
			Provider:         a.config.Type,
			Model:            a.config.Model,
			PromptTokens:     u.PromptTokens,
			CompletionTokens: u.CompletionTokens,
			TotalTokens:      u.TotalTokens,
			Failed:           failed,
		})
	}
	if a.metrics != nil && !failed {
		a.metrics.AddTokens(a.config.Name, "prompt", u.PromptTokens)
		a.metrics.AddTokens(a.config.Name, "completion", u.CompletionTokens)
	}
}

// updateHealth records a probe or request verdict.
func (a *HTTPAdapter) updateHealth(success bool, err error) {
	a.healthMu.Lock()
	defer a.healthMu.Unlock()

	a.health.LastCheck = time.Now()

	if success {
		a.health.Healthy = true
		a.health.ConsecutiveFailures = 0
		a.health.LastError = nil
		a.health.LastSuccessfulRequest = time.Now()
	} else {
		a.health.ConsecutiveFailures++
		a.health.LastError = err

		if a.health.ConsecutiveFailures >= unhealthyAfter {
			a.health.Healthy = false
			a.logger.Warn("adapter marked unhealthy",
				"consecutive_failures", a.health.ConsecutiveFailures,
				"error", err,
			)
		}
	}

	if a.metrics != nil {
		a.metrics.UpdateHealth(a.config.Name, a.health.Healthy)
	}
}

// recordRequest advances the request counters.
func (a *HTTPAdapter) recordRequest(success bool) {
	a.healthMu.Lock()
	defer a.healthMu.Unlock()

	a.health.TotalRequests++
	if !success {
		a.health.FailedRequests++
	}
}

// defaultProbe is the generic health check: a GET against the base URL
// with bearer auth. It bypasses the breaker and retry pipeline; probes
// must not consume the recovery probe slot.
func (a *HTTPAdapter) defaultProbe(ctx context.Context) error {
	headers := make(map[string]string)
	if a.config.APIKey != "" {
		headers["Authorization"] = "Bearer " + a.config.APIKey
	}

	resp, err := a.DoRequest(ctx, http.MethodGet, a.config.BaseURL, nil, headers)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// SetProbe replaces the health check implementation. Call before the
// health checker starts.
func (a *HTTPAdapter) SetProbe(fn func(ctx context.Context) error) {
	a.probe = fn
}

// HealthCheck performs one on-demand health probe.
func (a *HTTPAdapter) HealthCheck(ctx context.Context) error {
	return a.probe(ctx)
}

// Logger returns the adapter-scoped logger for concrete adapters.
func (a *HTTPAdapter) Logger() *slog.Logger {
	return a.logger
}

// Close stops the health checker and releases pooled connections.
func (a *HTTPAdapter) Close() error {
	a.closeOnce.Do(func() {
		close(a.stopHealthCheck)
	})

	if a.checkerStarted.Load() {
		select {
		case <-a.healthCheckStopped:
			a.logger.Debug("health checker stopped")
		case <-time.After(5 * time.Second):
			a.logger.Warn("health checker did not stop in time")
		}
	}

	a.client.CloseIdleConnections()
	a.logger.Info("adapter closed")
	return nil
}

// ParseRetryAfter parses a Retry-After header in either delay-seconds or
// HTTP-date form. Returns 0 when absent or unparseable.
func ParseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}

	var seconds int
	if _, err := fmt.Sscanf(header, "%d", &seconds); err == nil {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}

	return 0
}
