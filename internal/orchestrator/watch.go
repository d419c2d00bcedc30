package orchestrator

import (
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces bursts of filesystem events (a `git clone` touches
// several directories in quick succession) into a single rediscover signal.
const watchDebounce = 600 * time.Millisecond

// repoWatcher watches the configured search-dir roots for new or removed
// repository directories and signals when discovery should re-run. Grounded
// on the teacher's GitWatchService (internal/app/services/watch.go), adapted
// from watching a single repo's git-common-dir to watching the top-level
// search roots themselves.
type repoWatcher struct {
	watcher *fsnotify.Watcher
	events  chan struct{}
	done    chan struct{}

	mu          sync.Mutex
	paths       map[string]struct{}
	lastRefresh time.Time
}

// newRepoWatcher starts watching roots immediately and returns nil, nil if
// roots is empty (nothing configured to watch).
func newRepoWatcher(roots []string) (*repoWatcher, error) {
	if len(roots) == 0 {
		return nil, nil
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &repoWatcher{
		watcher: fw,
		events:  make(chan struct{}, 1),
		done:    make(chan struct{}),
		paths:   make(map[string]struct{}),
	}
	for _, root := range roots {
		w.addWatchDir(root)
	}
	go w.run()
	return w, nil
}

// Close stops the watcher goroutine and releases the fsnotify handle.
func (w *repoWatcher) Close() {
	if w == nil {
		return
	}
	select {
	case <-w.done:
		return
	default:
	}
	close(w.done)
	_ = w.watcher.Close()
}

func (w *repoWatcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				w.addWatchDir(event.Name)
			}
			w.signal()
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *repoWatcher) signal() {
	now := time.Now()
	w.mu.Lock()
	if !w.lastRefresh.IsZero() && now.Sub(w.lastRefresh) < watchDebounce {
		w.mu.Unlock()
		return
	}
	w.lastRefresh = now
	w.mu.Unlock()

	select {
	case w.events <- struct{}{}:
	default:
	}
}

// addWatchDir registers path with fsnotify if it's a directory not already
// watched. Newly created repo directories are picked up this way without
// requiring a recursive walk of every repo's internals.
func (w *repoWatcher) addWatchDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.paths[path]; ok {
		return
	}
	if err := w.watcher.Add(path); err != nil {
		return
	}
	w.paths[path] = struct{}{}
}
