package usage

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"
)

func TestTrackerRecord(t *testing.T) {
	tr := NewTracker()

	tr.Record(Sample{Provider: "openai", Model: "gpt-4o", PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150})
	tr.Record(Sample{Provider: "openai", Model: "gpt-4o", PromptTokens: 20, CompletionTokens: 10, TotalTokens: 30})
	tr.Record(Sample{Provider: "anthropic", Model: "claude-3.5-sonnet", PromptTokens: 40, CompletionTokens: 60, TotalTokens: 100})

	snap := tr.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("Snapshot() returned %d models, want 2", len(snap))
	}

	// Sorted by provider: anthropic before openai.
	if snap[0].Provider != "anthropic" || snap[1].Provider != "openai" {
		t.Errorf("snapshot order = %s, %s; want anthropic, openai", snap[0].Provider, snap[1].Provider)
	}

	gpt := snap[1]
	if gpt.Requests != 2 {
		t.Errorf("gpt-4o requests = %d, want 2", gpt.Requests)
	}
	if gpt.TotalTokens != 180 {
		t.Errorf("gpt-4o total tokens = %d, want 180", gpt.TotalTokens)
	}
	if gpt.PromptTokens != 120 || gpt.CompletionTokens != 60 {
		t.Errorf("gpt-4o prompt/completion = %d/%d, want 120/60", gpt.PromptTokens, gpt.CompletionTokens)
	}
}

func TestTrackerFailuresDoNotCountTokens(t *testing.T) {
	tr := NewTracker()

	tr.Record(Sample{Provider: "openai", Model: "gpt-4o", TotalTokens: 100})
	tr.Record(Sample{Provider: "openai", Model: "gpt-4o", TotalTokens: 999, Failed: true})

	snap := tr.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("Snapshot() returned %d models, want 1", len(snap))
	}
	if snap[0].Requests != 2 {
		t.Errorf("requests = %d, want 2", snap[0].Requests)
	}
	if snap[0].Failures != 1 {
		t.Errorf("failures = %d, want 1", snap[0].Failures)
	}
	if snap[0].TotalTokens != 100 {
		t.Errorf("total tokens = %d, want 100 (failed call must not count)", snap[0].TotalTokens)
	}
}

func TestTrackerTotals(t *testing.T) {
	tr := NewTracker()

	tr.Record(Sample{Provider: "openai", Model: "gpt-4o", PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15})
	tr.Record(Sample{Provider: "anthropic", Model: "claude-3.5-sonnet", PromptTokens: 30, CompletionTokens: 25, TotalTokens: 55})
	tr.Record(Sample{Provider: "anthropic", Model: "claude-3.5-sonnet", Failed: true})

	got := tr.Totals()
	want := Totals{Requests: 3, Failures: 1, PromptTokens: 40, CompletionTokens: 30, TotalTokens: 70}
	if got != want {
		t.Errorf("Totals() = %+v, want %+v", got, want)
	}
}

func TestTrackerTimestamps(t *testing.T) {
	tr := NewTracker()

	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := t0
	tr.now = func() time.Time { return clock }

	tr.Record(Sample{Provider: "openai", Model: "gpt-4o"})
	clock = t0.Add(time.Hour)
	tr.Record(Sample{Provider: "openai", Model: "gpt-4o"})

	snap := tr.Snapshot()
	if !snap[0].FirstSeen.Equal(t0) {
		t.Errorf("FirstSeen = %v, want %v", snap[0].FirstSeen, t0)
	}
	if !snap[0].LastUsed.Equal(t0.Add(time.Hour)) {
		t.Errorf("LastUsed = %v, want %v", snap[0].LastUsed, t0.Add(time.Hour))
	}
}

func TestTrackerReset(t *testing.T) {
	tr := NewTracker()
	tr.Record(Sample{Provider: "openai", Model: "gpt-4o", TotalTokens: 10})

	tr.Reset()

	if got := tr.Totals(); got.Requests != 0 {
		t.Errorf("Totals() after Reset = %+v, want zero", got)
	}
	if snap := tr.Snapshot(); len(snap) != 0 {
		t.Errorf("Snapshot() after Reset has %d models, want 0", len(snap))
	}
}

func TestTrackerConcurrentRecord(t *testing.T) {
	tr := NewTracker()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tr.Record(Sample{Provider: "openai", Model: "gpt-4o", TotalTokens: 1})
			}
		}()
	}
	wg.Wait()

	got := tr.Totals()
	if got.Requests != 1000 {
		t.Errorf("requests = %d, want 1000", got.Requests)
	}
	if got.TotalTokens != 1000 {
		t.Errorf("total tokens = %d, want 1000", got.TotalTokens)
	}
}

func TestReporterValidatesSchedule(t *testing.T) {
	r := NewReporter(NewTracker(), "not a cron line", slog.Default())
	if err := r.Start(context.Background()); err == nil {
		t.Fatal("Start() with invalid schedule: expected error")
	}
}

func TestReporterEmptyScheduleIsDisabled(t *testing.T) {
	r := NewReporter(NewTracker(), "", slog.Default())
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start() with empty schedule: %v", err)
	}
	if r.IsRunning() {
		t.Error("IsRunning() = true with empty schedule, want false")
	}
}

func TestReporterStartStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewReporter(NewTracker(), "0 * * * *", slog.Default())
	if err := r.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !r.IsRunning() {
		t.Fatal("IsRunning() = false after Start")
	}
	if r.NextRun() == nil {
		t.Error("NextRun() = nil while running")
	}

	r.Stop()
	if r.IsRunning() {
		t.Error("IsRunning() = true after Stop")
	}
}

func TestReporterStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	r := NewReporter(NewTracker(), "0 * * * *", slog.Default())
	if err := r.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	cancel()

	deadline := time.After(2 * time.Second)
	for r.IsRunning() {
		select {
		case <-deadline:
			t.Fatal("reporter still running after context cancel")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
