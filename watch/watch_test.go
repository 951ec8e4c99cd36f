package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewRequiresFiles(t *testing.T) {
	if _, err := New(nil, 0, func(string) {}); err == nil {
		t.Fatalf("expected error without files")
	}
}

func TestWatcherDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "styles.preset")
	other := filepath.Join(dir, "unrelated.txt")
	if err := os.WriteFile(target, []byte("preset a {}"), 0o644); err != nil {
		t.Fatal(err)
	}

	var calls atomic.Int32
	changed := make(chan string, 10)
	w, err := New([]string{target}, 100*time.Millisecond, func(path string) {
		calls.Add(1)
		changed <- path
	})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(target, []byte("preset a { supersample: 3 }"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(other, []byte("noise"), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case path := <-changed:
		want, _ := filepath.Abs(target)
		if path != want {
			t.Fatalf("callback for %q, want %q", path, want)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("no change reported")
	}

	time.Sleep(300 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Fatalf("expected one debounced callback, got %d", n)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Run did not stop after cancel")
	}
}
