package content

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"pkt.systems/pslog"
)

// DefaultDebounce batches rapid saves from editors into one reload.
const DefaultDebounce = 250 * time.Millisecond

// ReloadFunc receives each reload result. snap is nil when err is set and
// the previous snapshot stays current.
type ReloadFunc func(snap *Snapshot, err error)

// Watcher reloads a content directory when its markdown files change.
type Watcher struct {
	dir      string
	debounce time.Duration
	onReload ReloadFunc
	watcher  *fsnotify.Watcher
}

// NewWatcher watches dir and its blog/ and projects/ subdirectories.
func NewWatcher(dir string, debounce time.Duration, onReload ReloadFunc) (*Watcher, error) {
	if dir == "" {
		return nil, errors.New("content watcher: dir is required")
	}
	if onReload == nil {
		return nil, errors.New("content watcher: reload callback is required")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("content watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("content watcher: watch %s: %w", dir, err)
	}
	w := &Watcher{dir: dir, debounce: debounce, onReload: onReload, watcher: fw}
	for _, sub := range []string{blogDir, projectsDir} {
		w.addDir(filepath.Join(dir, sub))
	}
	return w, nil
}

func (w *Watcher) addDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	_ = w.watcher.Add(path)
}

// Run delivers debounced reloads until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	log := pslog.Ctx(ctx).With("content_dir", w.dir)
	defer func() { _ = w.watcher.Close() }()

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if event.Op.Has(fsnotify.Create) {
				w.addDir(event.Name)
			}
			log.Debug("content change", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			pending = timer.C
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("content watch error", "err", err)
		case <-pending:
			pending = nil
			snap, err := Load(os.DirFS(w.dir))
			if err != nil {
				log.Warn("content reload failed", "err", err)
				w.onReload(nil, err)
				continue
			}
			log.Info("content reloaded", "posts", len(snap.posts), "projects", len(snap.projects))
			w.onReload(snap, nil)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	switch filepath.Ext(event.Name) {
	case ".md", ".mdx":
		return true
	case "":
		base := filepath.Base(event.Name)
		return base == blogDir || base == projectsDir
	}
	return false
}
