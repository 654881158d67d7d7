package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func startWatcher(t *testing.T, debounce time.Duration) (*FileWatcher, context.CancelFunc) {
	t.Helper()
	fw, err := NewFileWatcher(debounce, nil)
	if err != nil {
		t.Fatalf("NewFileWatcher failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = fw.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		_ = fw.Close()
	})
	return fw, cancel
}

func TestWatchDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mesh.stl")
	if err := os.WriteFile(path, []byte("v0"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	fw, _ := startWatcher(t, 100*time.Millisecond)
	var calls atomic.Int32
	changed := make(chan string, 10)
	if err := fw.Watch([]string{path}, func(p string) {
		calls.Add(1)
		changed <- p
	}); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("v1"), 0o644); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case p := <-changed:
		abs, _ := filepath.Abs(path)
		if p != abs {
			t.Errorf("callback path failed: expected %s, got %s", abs, p)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("callback failed: no change reported")
	}

	time.Sleep(300 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Errorf("debounce failed: expected 1 callback, got %d", n)
	}
}

func TestWatchIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "watched.stl")
	if err := os.WriteFile(path, []byte("v0"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	fw, _ := startWatcher(t, 20*time.Millisecond)
	var calls atomic.Int32
	if err := fw.Watch([]string{path}, func(string) { calls.Add(1) }); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "other.stl"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	time.Sleep(200 * time.Millisecond)
	if n := calls.Load(); n != 0 {
		t.Errorf("filter failed: expected no callbacks, got %d", n)
	}
}

func TestRemoveAll(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mesh.stl")
	if err := os.WriteFile(path, []byte("v0"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	fw, _ := startWatcher(t, 20*time.Millisecond)
	var calls atomic.Int32
	if err := fw.Watch([]string{path}, func(string) { calls.Add(1) }); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	if err := fw.RemoveAll(); err != nil {
		t.Fatalf("RemoveAll failed: %v", err)
	}

	if err := os.WriteFile(path, []byte("v1"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	time.Sleep(200 * time.Millisecond)
	if n := calls.Load(); n != 0 {
		t.Errorf("RemoveAll failed: expected no callbacks, got %d", n)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	fw, err := NewFileWatcher(time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewFileWatcher failed: %v", err)
	}
	defer fw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := fw.Run(ctx); err != context.Canceled {
		t.Errorf("Run failed: expected context.Canceled, got %v", err)
	}
}
