package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "blog"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	reloads := make(chan *Snapshot, 4)
	w, err := NewWatcher(dir, 20*time.Millisecond, func(snap *Snapshot, err error) {
		if err != nil {
			t.Errorf("reload: %v", err)
			return
		}
		reloads <- snap
	})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	post := "---\ntitle: Fresh\ndate: 2025-01-01\n---\nhello\n"
	if err := os.WriteFile(filepath.Join(dir, "blog", "fresh.md"), []byte(post), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	select {
	case snap := <-reloads:
		if _, err := snap.Post("fresh"); err != nil {
			t.Fatalf("expected reloaded post: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcherRequiresCallback(t *testing.T) {
	if _, err := NewWatcher(t.TempDir(), 0, nil); err == nil {
		t.Fatal("expected error without callback")
	}
}
