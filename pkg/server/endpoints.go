package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"helios-labs/prism/pkg/resilience"
	"helios-labs/prism/pkg/usage"
)

// VersionInfo contains build and version information.
type VersionInfo struct {
	// Version is the semantic version (e.g., "1.0.0")
	Version string `json:"version"`

	// Commit is the git commit hash
	Commit string `json:"commit"`

	// BuildTime is when the binary was built
	BuildTime string `json:"build_time"`

	// GoVersion is the Go version used to build
	GoVersion string `json:"go_version"`
}

type livenessStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type readinessStatus struct {
	Status    string    `json:"status"`
	Available int       `json:"available"`
	Healthy   int       `json:"healthy"`
	Timestamp time.Time `json:"timestamp"`
}

// adapterStatus is one adapter's row in the /adapters response. Health and
// breaker state are read at request time.
type adapterStatus struct {
	Name                string              `json:"name"`
	Type                string              `json:"type"`
	Model               string              `json:"model"`
	Available           bool                `json:"available"`
	Healthy             bool                `json:"healthy"`
	LastCheck           time.Time           `json:"last_check,omitzero"`
	LastError           string              `json:"last_error,omitempty"`
	ConsecutiveFailures int                 `json:"consecutive_failures"`
	TotalRequests       int64               `json:"total_requests"`
	FailedRequests      int64               `json:"failed_requests"`
	Breaker             resilience.Snapshot `json:"breaker"`
}

type usageReport struct {
	Totals usage.Totals       `json:"totals"`
	Models []usage.ModelUsage `json:"models"`
}

// handleHealth is the liveness probe. It verifies the process is alive and
// nothing more; adapter state is /ready's concern.
//
// Example response:
//
//	{
//	    "status": "ok",
//	    "timestamp": "2025-11-20T10:30:00Z"
//	}
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status := livenessStatus{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if r.Method != http.MethodHead {
		_ = json.NewEncoder(w).Encode(status)
	}
}

// handleReady is the readiness probe.
//
// Returns:
//   - 200 OK: at least one available adapter is healthy
//   - 503 Service Unavailable: no adapter can serve traffic
//
// Status is "ready" when healthy capacity exists, "degraded" when adapters
// are configured but none is currently healthy, and "unavailable" when no
// adapter is available at all.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	available := s.source.GetAvailableAdapters()
	healthy := 0
	for _, a := range available {
		if a.IsHealthy() {
			healthy++
		}
	}

	status := readinessStatus{
		Available: len(available),
		Healthy:   healthy,
		Timestamp: time.Now().UTC(),
	}
	switch {
	case healthy > 0:
		status.Status = "ready"
	case len(available) > 0:
		status.Status = "degraded"
	default:
		status.Status = "unavailable"
	}

	w.Header().Set("Content-Type", "application/json")

	if status.Status != "ready" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	if r.Method != http.MethodHead {
		_ = json.NewEncoder(w).Encode(status)
	}
}

// handleAdapters reports every registered adapter with its availability,
// health counters, and circuit breaker snapshot.
func (s *Server) handleAdapters(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	all := s.source.GetAllAdapters()
	statuses := make([]adapterStatus, 0, len(all))
	for _, a := range all {
		h := a.GetHealth()
		st := adapterStatus{
			Name:                a.GetName(),
			Type:                a.GetType(),
			Model:               a.GetModel(),
			Available:           a.IsAvailable(),
			Healthy:             h.Healthy,
			LastCheck:           h.LastCheck,
			ConsecutiveFailures: h.ConsecutiveFailures,
			TotalRequests:       h.TotalRequests,
			FailedRequests:      h.FailedRequests,
			Breaker:             a.BreakerSnapshot(),
		}
		if h.LastError != nil {
			st.LastError = h.LastError.Error()
		}
		statuses = append(statuses, st)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if r.Method != http.MethodHead {
		_ = json.NewEncoder(w).Encode(statuses)
	}
}

// handleVersion returns build information.
//
// Example response:
//
//	{
//	    "version": "1.0.0",
//	    "commit": "abc123def456",
//	    "build_time": "2025-11-20T00:00:00Z",
//	    "go_version": "go1.25.0"
//	}
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	info := s.version
	if info.GoVersion == "" {
		info.GoVersion = runtime.Version()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if r.Method != http.MethodHead {
		_ = json.NewEncoder(w).Encode(info)
	}
}

// handleUsage reports aggregated token usage, totals first.
func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	report := usageReport{
		Totals: s.usage.Totals(),
		Models: s.usage.Snapshot(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if r.Method != http.MethodHead {
		_ = json.NewEncoder(w).Encode(report)
	}
}
