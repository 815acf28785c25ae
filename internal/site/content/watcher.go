package content

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/keyloom/website/internal/pkg/retry"
)

// debounceWindow is how long a file must stay quiet before a reload fires.
// Editors often emit several events per save.
const debounceWindow = 300 * time.Millisecond

// Watcher reloads the repository when content files change and notifies a
// callback afterwards (used to push live-reload events to browsers).
type Watcher struct {
	repo     *Repository
	logger   *logrus.Logger
	onReload func(paths []string)

	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	doneCh  chan struct{}

	mu      sync.Mutex
	pending map[string]time.Time
	running bool
}

// NewWatcher creates a watcher over the repository's content directory.
// onReload may be nil.
func NewWatcher(repo *Repository, onReload func(paths []string), logger *logrus.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		repo:     repo,
		logger:   logger,
		onReload: onReload,
		watcher:  fsw,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		pending:  make(map[string]time.Time),
	}, nil
}

// Start begins watching. It is non-blocking; the watcher runs until Stop or
// until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	for _, dir := range w.dirs() {
		if err := w.watcher.Add(dir); err != nil {
			w.logger.WithError(err).WithField("dir", dir).Warn("watch failed")
		}
	}

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.logger.WithError(err).Error("close watcher")
	}
}

func (w *Watcher) dirs() []string {
	return []string{w.repo.Dir(), filepath.Join(w.repo.Dir(), blogDir)}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.WithError(err).Error("watcher error")
		case <-ticker.C:
			w.flushPending()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !isContentFile(event.Name) {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	// Editors that save via rename replace the watched inode; re-arm the
	// directory watches so the next save is still seen.
	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		w.rearm()
	}

	w.mu.Lock()
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) rearm() {
	for _, dir := range w.dirs() {
		dir := dir
		err := retry.Do(func() error {
			return w.watcher.Add(dir)
		})
		if err != nil {
			w.logger.WithError(err).WithField("dir", dir).Debug("re-arm watch")
		}
	}
}

// flushPending reloads once the changed files have settled past the
// debounce window.
func (w *Watcher) flushPending() {
	w.mu.Lock()
	now := time.Now()
	var settled []string
	for path, at := range w.pending {
		if now.Sub(at) >= debounceWindow {
			settled = append(settled, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	if len(settled) == 0 {
		return
	}
	sort.Strings(settled)

	if err := w.repo.Reload(); err != nil {
		// Keep serving the previous content; the next save gets another try.
		w.logger.WithError(err).Error("content reload failed")
		return
	}
	w.logger.WithField("files", len(settled)).Info("content reloaded")

	if w.onReload != nil {
		w.onReload(settled)
	}
}

// isContentFile reports whether a path is one the site renders from.
func isContentFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".yaml", ".yml":
		return true
	}
	return false
}
