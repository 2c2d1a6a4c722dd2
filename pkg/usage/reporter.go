package usage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Reporter logs tracker snapshots on a cron schedule.
type Reporter struct {
	tracker  *Tracker
	schedule string
	cron     *cron.Cron
	mu       sync.Mutex
	logger   *slog.Logger
	running  bool
}

// NewReporter creates a reporter for the given cron schedule.
//
// Common schedules:
//   - "0 * * * *"   - hourly on the hour
//   - "*/15 * * * *" - every 15 minutes
//   - "0 0 * * *"   - daily at midnight
func NewReporter(tracker *Tracker, schedule string, logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{
		tracker:  tracker,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger.With("component", "usage.reporter"),
	}
}

// Start begins scheduled reporting. An empty schedule disables the
// reporter without error. Stops automatically when ctx is canceled.
func (r *Reporter) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.schedule == "" {
		r.logger.Info("usage report schedule not configured, skipping reporter")
		return nil
	}

	if _, err := cron.ParseStandard(r.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", r.schedule, err)
	}

	if _, err := r.cron.AddFunc(r.schedule, r.report); err != nil {
		return fmt.Errorf("failed to schedule usage report: %w", err)
	}

	r.cron.Start()
	r.running = true

	r.logger.Info("usage reporter started", "schedule", r.schedule)

	go func() {
		<-ctx.Done()
		r.Stop()
	}()

	return nil
}

// report logs the current totals and one line per model.
func (r *Reporter) report() {
	totals := r.tracker.Totals()
	if totals.Requests == 0 {
		r.logger.Debug("usage report: no requests recorded")
		return
	}

	r.logger.Info("usage report",
		"requests", totals.Requests,
		"failures", totals.Failures,
		"prompt_tokens", totals.PromptTokens,
		"completion_tokens", totals.CompletionTokens,
		"total_tokens", totals.TotalTokens,
	)

	for _, m := range r.tracker.Snapshot() {
		r.logger.Info("model usage",
			"provider", m.Provider,
			"model", m.Model,
			"requests", m.Requests,
			"failures", m.Failures,
			"total_tokens", m.TotalTokens,
		)
	}
}

// Stop halts the schedule and waits for a running report to finish.
func (r *Reporter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cron != nil && r.running {
		ctx := r.cron.Stop()
		<-ctx.Done()
		r.running = false
		r.logger.Info("usage reporter stopped")
	}
}

// IsRunning returns true while the schedule is active.
func (r *Reporter) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// NextRun returns the next scheduled report time, or nil when not running.
func (r *Reporter) NextRun() *time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
