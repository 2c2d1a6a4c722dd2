package usage

import (
	"sort"
	"sync"
	"time"
)

// Sample is one adapter call's worth of usage.
type Sample struct {
	Provider         string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Failed           bool
}

// ModelUsage is the running aggregate for one provider/model pair.
type ModelUsage struct {
	Provider         string    `json:"provider"`
	Model            string    `json:"model"`
	Requests         int64     `json:"requests"`
	Failures         int64     `json:"failures"`
	PromptTokens     int64     `json:"prompt_tokens"`
	CompletionTokens int64     `json:"completion_tokens"`
	TotalTokens      int64     `json:"total_tokens"`
	FirstSeen        time.Time `json:"first_seen"`
	LastUsed         time.Time `json:"last_used"`
}

// Totals sums usage across every model.
type Totals struct {
	Requests         int64 `json:"requests"`
	Failures         int64 `json:"failures"`
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
}

// Tracker aggregates samples in memory. Safe for concurrent use.
type Tracker struct {
	mu     sync.RWMutex
	models map[string]*ModelUsage
	now    func() time.Time
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		models: make(map[string]*ModelUsage),
		now:    time.Now,
	}
}

// Record folds one sample into the aggregate. A sample with a zero
// TotalTokens still counts as a request; failed calls count toward
// Failures but never toward token totals.
func (t *Tracker) Record(s Sample) {
	key := s.Provider + "/" + s.Model

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	m, ok := t.models[key]
	if !ok {
		m = &ModelUsage{
			Provider:  s.Provider,
			Model:     s.Model,
			FirstSeen: now,
		}
		t.models[key] = m
	}

	m.Requests++
	m.LastUsed = now
	if s.Failed {
		m.Failures++
		return
	}
	m.PromptTokens += int64(s.PromptTokens)
	m.CompletionTokens += int64(s.CompletionTokens)
	m.TotalTokens += int64(s.TotalTokens)
}

// Snapshot returns a copy of every model aggregate, sorted by provider
// then model.
func (t *Tracker) Snapshot() []ModelUsage {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]ModelUsage, 0, len(t.models))
	for _, m := range t.models {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Provider != out[j].Provider {
			return out[i].Provider < out[j].Provider
		}
		return out[i].Model < out[j].Model
	})
	return out
}

// Totals sums the aggregate across all models.
func (t *Tracker) Totals() Totals {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var sum Totals
	for _, m := range t.models {
		sum.Requests += m.Requests
		sum.Failures += m.Failures
		sum.PromptTokens += m.PromptTokens
		sum.CompletionTokens += m.CompletionTokens
		sum.TotalTokens += m.TotalTokens
	}
	return sum
}

// Reset clears all aggregates.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.models = make(map[string]*ModelUsage)
}
