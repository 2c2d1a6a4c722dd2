package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordRequest(t *testing.T) {
	m := NewAdapterMetrics("test", prometheus.NewRegistry())

	m.RecordRequest("anthropic/claude-3.5-sonnet", "anthropic", "claude-3.5-sonnet")
	m.RecordRequest("anthropic/claude-3.5-sonnet", "anthropic", "claude-3.5-sonnet")
	m.RecordRequest("openai/gpt-4o", "openai", "gpt-4o")

	got := testutil.ToFloat64(m.requests.WithLabelValues("anthropic/claude-3.5-sonnet", "anthropic", "claude-3.5-sonnet"))
	if got != 2 {
		t.Errorf("requests for anthropic adapter = %v, want 2", got)
	}

	got = testutil.ToFloat64(m.requests.WithLabelValues("openai/gpt-4o", "openai", "gpt-4o"))
	if got != 1 {
		t.Errorf("requests for openai adapter = %v, want 1", got)
	}
}

func TestRecordError(t *testing.T) {
	m := NewAdapterMetrics("test", prometheus.NewRegistry())

	m.RecordError("openai/gpt-4o", "transient")
	m.RecordError("openai/gpt-4o", "transient")
	m.RecordError("openai/gpt-4o", "terminal")

	if got := testutil.ToFloat64(m.errors.WithLabelValues("openai/gpt-4o", "transient")); got != 2 {
		t.Errorf("transient errors = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.errors.WithLabelValues("openai/gpt-4o", "terminal")); got != 1 {
		t.Errorf("terminal errors = %v, want 1", got)
	}
}

func TestRecordRetry(t *testing.T) {
	m := NewAdapterMetrics("test", prometheus.NewRegistry())

	m.RecordRetry("openai/gpt-4o", "rate_limit")
	m.RecordRetry("openai/gpt-4o", "rate_limit")
	m.RecordRetry("openai/gpt-4o", "server_error")

	if got := testutil.ToFloat64(m.retries.WithLabelValues("openai/gpt-4o", "rate_limit")); got != 2 {
		t.Errorf("rate_limit retries = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.retries.WithLabelValues("openai/gpt-4o", "server_error")); got != 1 {
		t.Errorf("server_error retries = %v, want 1", got)
	}
}

func TestAddTokens(t *testing.T) {
	m := NewAdapterMetrics("test", prometheus.NewRegistry())

	m.AddTokens("anthropic/claude-3.5-sonnet", "prompt", 120)
	m.AddTokens("anthropic/claude-3.5-sonnet", "prompt", 30)
	m.AddTokens("anthropic/claude-3.5-sonnet", "completion", 256)
	m.AddTokens("anthropic/claude-3.5-sonnet", "completion", 0)
	m.AddTokens("anthropic/claude-3.5-sonnet", "completion", -5)

	if got := testutil.ToFloat64(m.tokens.WithLabelValues("anthropic/claude-3.5-sonnet", "prompt")); got != 150 {
		t.Errorf("prompt tokens = %v, want 150", got)
	}
	if got := testutil.ToFloat64(m.tokens.WithLabelValues("anthropic/claude-3.5-sonnet", "completion")); got != 256 {
		t.Errorf("completion tokens = %v, want 256", got)
	}
}

func TestSetBreakerState(t *testing.T) {
	m := NewAdapterMetrics("test", prometheus.NewRegistry())

	m.SetBreakerState("openai/gpt-4o", 0)
	if got := testutil.ToFloat64(m.breakerState.WithLabelValues("openai/gpt-4o")); got != 0 {
		t.Errorf("breaker state = %v, want 0", got)
	}

	m.SetBreakerState("openai/gpt-4o", 1)
	if got := testutil.ToFloat64(m.breakerState.WithLabelValues("openai/gpt-4o")); got != 1 {
		t.Errorf("breaker state = %v, want 1", got)
	}

	m.SetBreakerState("openai/gpt-4o", 2)
	if got := testutil.ToFloat64(m.breakerState.WithLabelValues("openai/gpt-4o")); got != 2 {
		t.Errorf("breaker state = %v, want 2", got)
	}
}

func TestUpdateHealth(t *testing.T) {
	m := NewAdapterMetrics("test", prometheus.NewRegistry())

	m.UpdateHealth("anthropic/claude-3.5-sonnet", true)
	if got := testutil.ToFloat64(m.health.WithLabelValues("anthropic/claude-3.5-sonnet")); got != 1.0 {
		t.Errorf("health = %v, want 1.0", got)
	}

	m.UpdateHealth("anthropic/claude-3.5-sonnet", false)
	if got := testutil.ToFloat64(m.health.WithLabelValues("anthropic/claude-3.5-sonnet")); got != 0.0 {
		t.Errorf("health = %v, want 0.0", got)
	}
}

func TestObserveLatency(t *testing.T) {
	m := NewAdapterMetrics("test", prometheus.NewRegistry())

	m.ObserveLatency("openai/gpt-4o", "openai", 0.25)
	m.ObserveLatency("openai/gpt-4o", "openai", 1.5)
	m.ObserveLatency("openai/gpt-4o", "openai", 4.0)

	count := testutil.CollectAndCount(m.latency, "test_adapter_request_duration_seconds")
	if count != 1 {
		t.Errorf("latency series count = %d, want 1", count)
	}
}

func TestDefaultNamespace(t *testing.T) {
	m := NewAdapterMetrics("", prometheus.NewRegistry())
	m.RecordRequest("a", "p", "m")

	families, err := m.registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	found := false
	for _, f := range families {
		if f.GetName() == "prism_adapter_requests_total" {
			found = true
		}
	}
	if !found {
		t.Error("expected metric prism_adapter_requests_total with default namespace")
	}
}

func TestNilRegistryCreatesOne(t *testing.T) {
	m := NewAdapterMetrics("test", nil)
	if m.Registry() == nil {
		t.Fatal("Registry() = nil, want a registry")
	}

	// The standard collectors come pre-registered.
	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	found := false
	for _, f := range families {
		if strings.HasPrefix(f.GetName(), "go_") {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected go runtime collectors on a fresh registry")
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	m := NewAdapterMetrics("test", prometheus.NewRegistry())
	m.RecordRequest("openai/gpt-4o", "openai", "gpt-4o")

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	if err := testutil.GatherAndCompare(m.registry, strings.NewReader(`
# HELP test_adapter_requests_total Total completion requests by adapter, provider, and model
# TYPE test_adapter_requests_total counter
test_adapter_requests_total{adapter="openai/gpt-4o",model="gpt-4o",provider="openai"} 1
`), "test_adapter_requests_total"); err != nil {
		t.Errorf("exposition mismatch: %v", err)
	}
}
