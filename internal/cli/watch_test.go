package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
)

func TestWatchRerunsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.png")
	if err := os.WriteFile(path, []byte("v1"), 0o600); err != nil {
		t.Fatal(err)
	}

	a := &app{logger: hclog.NewNullLogger()}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runs := make(chan struct{}, 10)
	done := make(chan error, 1)
	go func() {
		done <- a.watch(ctx, path, func(context.Context) error {
			runs <- struct{}{}
			return nil
		})
	}()

	waitRun := func(what string) {
		t.Helper()
		select {
		case <-runs:
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for %s", what)
		}
	}

	waitRun("initial run")
	// The watcher is registered before the first run, so this write is seen.
	if err := os.WriteFile(path, []byte("v2"), 0o600); err != nil {
		t.Fatal(err)
	}
	waitRun("re-run after write")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watch() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch() did not return after cancel")
	}
}

func TestWatchRejectsNonFiles(t *testing.T) {
	a := &app{logger: hclog.NewNullLogger()}
	for _, src := range []string{"-", "https://example.com/a.png"} {
		err := a.watch(context.Background(), src, func(context.Context) error { return nil })
		if !errors.Is(err, errWatchSource) {
			t.Errorf("watch(%q) error = %v, want errWatchSource", src, err)
		}
	}
}

func TestWatchRejectsNonImageFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("text"), 0o600); err != nil {
		t.Fatal(err)
	}
	a := &app{logger: hclog.NewNullLogger()}
	called := false
	err := a.watch(context.Background(), path, func(context.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, errWatchNotImage) {
		t.Errorf("watch() error = %v, want errWatchNotImage", err)
	}
	if called {
		t.Error("Expected no run for a rejected source")
	}
}
