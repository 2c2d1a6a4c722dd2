package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

// startWatcher runs a watcher over path and returns a channel that receives
// after every reload, plus a stop function.
func startWatcher(t *testing.T, path string, debounce time.Duration) (<-chan struct{}, func()) {
	t.Helper()

	w, err := NewWatcher(path, debounce, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}

	reloads := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- w.Watch(context.Background(), func() error {
			reloads <- struct{}{}
			return nil
		})
	}()

	// Give the watch loop a moment to register the directory.
	time.Sleep(50 * time.Millisecond)

	stop := func() {
		if err := w.Stop(); err != nil {
			t.Errorf("failed to stop watcher: %v", err)
		}
		if err := <-done; err != nil {
			t.Errorf("watch returned error: %v", err)
		}
	}
	return reloads, stop
}

func waitReload(t *testing.T, reloads <-chan struct{}) {
	t.Helper()
	select {
	case <-reloads:
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcher_TriggersOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prism.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  level: info\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	reloads, stop := startWatcher(t, path, 20*time.Millisecond)
	defer stop()

	if err := os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	waitReload(t, reloads)
}

func TestWatcher_TriggersOnRenameReplace(t *testing.T) {
	// Editors typically save by writing a temp file and renaming it over
	// the target. Watching the parent directory keeps this visible.
	dir := t.TempDir()
	path := filepath.Join(dir, "prism.yaml")
	if err := os.WriteFile(path, []byte("a: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	reloads, stop := startWatcher(t, path, 20*time.Millisecond)
	defer stop()

	tmp := filepath.Join(dir, ".prism.yaml.tmp")
	if err := os.WriteFile(tmp, []byte("a: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}

	waitReload(t, reloads)
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prism.yaml")
	if err := os.WriteFile(path, []byte("a: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	reloads, stop := startWatcher(t, path, 20*time.Millisecond)
	defer stop()

	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("b: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-reloads:
		t.Fatal("reload triggered by unrelated file")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prism.yaml")
	if err := os.WriteFile(path, []byte("a: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var count atomic.Int32
	w, err := NewWatcher(path, 150*time.Millisecond, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	if err != nil {
		t.Fatal(err)
	}
	done := make(chan error, 1)
	go func() {
		done <- w.Watch(context.Background(), func() error {
			count.Add(1)
			return nil
		})
	}()
	time.Sleep(50 * time.Millisecond)

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("a: 1\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	// One quiet period, one reload.
	time.Sleep(500 * time.Millisecond)
	if got := count.Load(); got != 1 {
		t.Errorf("expected 1 debounced reload, got %d", got)
	}

	if err := w.Stop(); err != nil {
		t.Errorf("failed to stop watcher: %v", err)
	}
	<-done
}

func TestWatcher_ContextCancelStopsWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prism.yaml")
	if err := os.WriteFile(path, []byte("a: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path, 0, nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, func() error { return nil })
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected nil from cancelled watch, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not return after context cancellation")
	}

	if err := w.Stop(); err != nil {
		t.Errorf("stop after cancelled watch failed: %v", err)
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prism.yaml")
	if err := os.WriteFile(path, []byte("a: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	done := make(chan error, 1)
	go func() {
		done <- w.Watch(context.Background(), func() error { return nil })
	}()
	time.Sleep(50 * time.Millisecond)

	if err := w.Stop(); err != nil {
		t.Fatalf("first stop failed: %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("second stop failed: %v", err)
	}
	<-done
}

func TestDebouncer_CoalescesRapidTriggers(t *testing.T) {
	d := newDebouncer(50 * time.Millisecond)
	defer d.stop()

	var count atomic.Int32
	for i := 0; i < 10; i++ {
		d.trigger(func() { count.Add(1) })
	}

	time.Sleep(200 * time.Millisecond)
	if got := count.Load(); got != 1 {
		t.Errorf("expected 1 callback, got %d", got)
	}
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	d := newDebouncer(50 * time.Millisecond)

	var count atomic.Int32
	d.trigger(func() { count.Add(1) })
	d.stop()

	time.Sleep(150 * time.Millisecond)
	if got := count.Load(); got != 0 {
		t.Errorf("expected pending callback to be cancelled, got %d calls", got)
	}
}
