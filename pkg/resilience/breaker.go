package resilience

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// State identifies a breaker's position in its lifecycle.
type State int

const (
	// StateClosed admits every call.
	StateClosed State = iota

	// StateOpen rejects every call until the reset timeout elapses.
	StateOpen

	// StateHalfOpen admits exactly one probe call.
	StateHalfOpen
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// Default breaker settings, applied by NewBreaker when the config leaves
// them zero.
const (
	DefaultFailureThreshold = 5
	DefaultResetTimeout     = 60 * time.Second
)

// BreakerConfig configures a circuit breaker.
type BreakerConfig struct {
	// Name identifies the breaker in errors, logs, and metrics. Usually the
	// adapter name.
	Name string

	// FailureThreshold is the number of consecutive failures that opens
	// the breaker.
	FailureThreshold int

	// ResetTimeout is how long the breaker stays open before admitting a
	// probe.
	ResetTimeout time.Duration

	// Logger defaults to slog.Default when nil.
	Logger *slog.Logger
}

// Breaker is a per-adapter circuit breaker. It isolates a misbehaving
// provider: after FailureThreshold consecutive failures calls are rejected
// outright, and after ResetTimeout a single probe decides whether the
// provider has recovered.
//
// A Breaker belongs to exactly one adapter instance and is safe for
// concurrent use.
type Breaker struct {
	name             string
	failureThreshold int
	resetTimeout     time.Duration
	logger           *slog.Logger

	mu                  sync.Mutex
	state               State
	consecutiveFailures int
	openedAt            time.Time
	probing             bool
	onStateChange       func(from, to State)
}

// Snapshot is a point-in-time copy of a breaker's state for health
// reporting. It carries no locks and goes stale immediately.
type Snapshot struct {
	Name                string        `json:"name"`
	State               State         `json:"-"`
	StateName           string        `json:"state"`
	ConsecutiveFailures int           `json:"consecutive_failures"`
	OpenedAt            time.Time     `json:"opened_at,omitzero"`
	FailureThreshold    int           `json:"failure_threshold"`
	ResetTimeout        time.Duration `json:"reset_timeout"`
}

// NewBreaker creates a breaker in the closed state.
func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = DefaultFailureThreshold
	}
	if cfg.ResetTimeout <= 0 {
		cfg.ResetTimeout = DefaultResetTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Breaker{
		name:             cfg.Name,
		failureThreshold: cfg.FailureThreshold,
		resetTimeout:     cfg.ResetTimeout,
		logger:           logger.With("breaker", cfg.Name),
		state:            StateClosed,
	}
}

// OnStateChange registers fn to run on every state transition. fn runs with
// the breaker's lock held and must not call back into the breaker.
func (b *Breaker) OnStateChange(fn func(from, to State)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onStateChange = fn
}

// Do runs op under the breaker's admission control.
//
// While open, Do fails with *CircuitOpenError without invoking op. A success
// closes the breaker and resets its failure count; a failure advances the
// count and may open it. Context cancellation is not a provider verdict: it
// neither advances nor resets the failure count.
func (b *Breaker) Do(ctx context.Context, op func(context.Context) error) error {
	if err := b.admit(); err != nil {
		return err
	}

	err := op(ctx)

	switch {
	case err == nil:
		b.recordSuccess()
	case errors.Is(err, context.Canceled):
		b.releaseProbe()
	default:
		b.recordFailure()
	}

	return err
}

// State returns the breaker's current state. The OPEN to HALF_OPEN
// transition happens on the next admitted call, not here.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Snapshot returns a copy of the breaker's state for health reporting.
func (b *Breaker) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	return Snapshot{
		Name:                b.name,
		State:               b.state,
		StateName:           b.state.String(),
		ConsecutiveFailures: b.consecutiveFailures,
		OpenedAt:            b.openedAt,
		FailureThreshold:    b.failureThreshold,
		ResetTimeout:        b.resetTimeout,
	}
}

// admit decides whether a call may proceed, applying the OPEN -> HALF_OPEN
// transition once the reset timeout has elapsed.
func (b *Breaker) admit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		remaining := b.resetTimeout - time.Since(b.openedAt)
		if remaining > 0 {
			return &CircuitOpenError{Name: b.name, OpenedAt: b.openedAt, RetryAfter: remaining}
		}
		// Cooldown elapsed: this call becomes the probe.
		b.transition(StateHalfOpen)
		b.probing = true
		return nil

	case StateHalfOpen:
		if b.probing {
			// One probe at a time; everyone else keeps getting rejected.
			return &CircuitOpenError{Name: b.name, OpenedAt: b.openedAt}
		}
		b.probing = true
		return nil

	default:
		return nil
	}
}

func (b *Breaker) recordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.probing = false
	b.consecutiveFailures = 0
	b.openedAt = time.Time{}
	b.transition(StateClosed)
}

func (b *Breaker) recordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.consecutiveFailures++

	switch b.state {
	case StateHalfOpen:
		// Failed probe: reopen and restart the cooldown window.
		b.probing = false
		b.openedAt = time.Now()
		b.transition(StateOpen)

	case StateClosed:
		if b.consecutiveFailures >= b.failureThreshold {
			b.openedAt = time.Now()
			b.transition(StateOpen)
		}
	}
}

// releaseProbe clears the probe-in-flight flag after a canceled call so the
// next caller can probe instead.
func (b *Breaker) releaseProbe() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.probing = false
}

// transition moves the breaker to a new state, logging and notifying the
// registered callback. Must be called with b.mu held.
func (b *Breaker) transition(to State) {
	from := b.state
	if from == to {
		return
	}
	b.state = to

	if to == StateClosed {
		b.logger.Info("circuit breaker closed",
			"from", from.String(),
		)
	} else {
		b.logger.Warn("circuit breaker state change",
			"from", from.String(),
			"to", to.String(),
			"consecutive_failures", b.consecutiveFailures,
		)
	}

	if b.onStateChange != nil {
		b.onStateChange(from, to)
	}
}
