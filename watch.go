// FILE: chassis/watch.go
package chassis

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"sync"
	"sync/atomic"
	"time"
)

const DefaultMaxWatchers = 100 // Prevent resource exhaustion

// WatchOptions configures file watching behavior.
type WatchOptions struct {
	// PollInterval for file stat checks (minimum 100ms)
	PollInterval time.Duration

	// Debounce duration to avoid rapid reloads
	Debounce time.Duration

	// MaxWatchers limits concurrent subscriber channels
	MaxWatchers int

	// ReloadTimeout bounds a single reload and re-resolve pass
	ReloadTimeout time.Duration

	// EnvPrefix is prepended to field env keys during re-resolution
	EnvPrefix string

	// Section scopes the reloaded document to a sub-table
	Section string
}

// DefaultWatchOptions returns sensible defaults for file watching.
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		PollInterval:  DefaultPollInterval,
		Debounce:      DefaultDebounce,
		MaxWatchers:   DefaultMaxWatchers,
		ReloadTimeout: DefaultReloadTimeout,
	}
}

// Watcher polls a configuration file and notifies subscribers with the
// "group.field" names whose resolved values changed between passes.
// Resolution stays uncached; the watcher only compares successive snapshots
// to decide what to announce.
type Watcher struct {
	mu               sync.RWMutex
	ctx              context.Context
	cancel           context.CancelFunc
	opts             WatchOptions
	registry         *Registry
	filePath         string
	lastModTime      time.Time
	lastSize         int64
	watching         atomic.Bool
	reloadInProgress atomic.Bool
	subscribers      map[int64]chan string
	subscriberID     atomic.Int64
	debounceTimer    *time.Timer
	last             map[string]any // previous resolved snapshot
}

// NewWatcher prepares a watcher over the registry's fields and the given
// configuration file. Call Start to begin polling.
func NewWatcher(registry *Registry, filePath string, opts WatchOptions) *Watcher {
	if opts.PollInterval < MinPollInterval {
		opts.PollInterval = MinPollInterval
	}
	if opts.MaxWatchers <= 0 {
		opts.MaxWatchers = DefaultMaxWatchers
	}
	if opts.ReloadTimeout <= 0 {
		opts.ReloadTimeout = DefaultReloadTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		ctx:         ctx,
		cancel:      cancel,
		opts:        opts,
		registry:    registry,
		filePath:    filePath,
		subscribers: make(map[int64]chan string),
	}
}

// Start records the file's initial state and launches the polling loop.
// Starting an already-started watcher is a no-op.
func (w *Watcher) Start() {
	if !w.watching.CompareAndSwap(false, true) {
		return
	}

	if info, err := os.Stat(w.filePath); err == nil {
		w.lastModTime = info.ModTime()
		w.lastSize = info.Size()
	}

	// Best-effort initial snapshot so the first change notifies only what
	// actually differs
	if snapshot, err := w.resolveSnapshot(); err == nil {
		w.mu.Lock()
		w.last = snapshot
		w.mu.Unlock()
	}

	go w.watchLoop()
}

// Stop terminates the watcher, bounding the join with ShutdownTimeout.
func (w *Watcher) Stop() {
	w.cancel()

	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
	w.mu.Unlock()

	deadline := time.Now().Add(ShutdownTimeout)
	for w.watching.Load() && time.Now().Before(deadline) {
		time.Sleep(SpinWaitInterval)
	}
}

// Subscribe returns a channel receiving the names of changed fields. The
// channel closes when the watcher stops.
func (w *Watcher) Subscribe() <-chan string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.subscribers) >= w.opts.MaxWatchers {
		// Return closed channel to prevent resource exhaustion
		ch := make(chan string)
		close(ch)
		return ch
	}

	// Buffered to avoid blocking the notify path
	ch := make(chan string, 10)
	id := w.subscriberID.Add(1)
	w.subscribers[id] = ch

	go func() {
		<-w.ctx.Done()
		w.mu.Lock()
		delete(w.subscribers, id)
		close(ch)
		w.mu.Unlock()
	}()

	return ch
}

// IsWatching reports whether the polling loop is running.
func (w *Watcher) IsWatching() bool {
	return w.watching.Load()
}

// SubscriberCount returns the number of active subscriber channels.
func (w *Watcher) SubscriberCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.subscribers)
}

// watchLoop is the main polling loop.
func (w *Watcher) watchLoop() {
	defer w.watching.Store(false)

	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.checkAndReload()
		}
	}
}

// checkAndReload compares file state and schedules a debounced reload on
// change.
func (w *Watcher) checkAndReload() {
	info, err := os.Stat(w.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			w.notify("file_deleted")
		}
		return
	}

	if info.ModTime().Equal(w.lastModTime) && info.Size() == w.lastSize {
		return
	}
	w.lastModTime = info.ModTime()
	w.lastSize = info.Size()

	// Coalesce rapid successive writes
	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.opts.Debounce, w.performReload)
	w.mu.Unlock()
}

// performReload re-resolves every registered field and notifies the names
// whose values changed.
func (w *Watcher) performReload() {
	if !w.reloadInProgress.CompareAndSwap(false, true) {
		return
	}
	defer w.reloadInProgress.Store(false)

	ctx, cancel := context.WithTimeout(w.ctx, w.opts.ReloadTimeout)
	defer cancel()

	type outcome struct {
		snapshot map[string]any
		err      error
	}
	done := make(chan outcome, 1)
	go func() {
		snapshot, err := w.resolveSnapshot()
		done <- outcome{snapshot: snapshot, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			w.notify(fmt.Sprintf("reload_error:%v", out.err))
			return
		}

		w.mu.Lock()
		previous := w.last
		w.last = out.snapshot
		w.mu.Unlock()

		for name, value := range out.snapshot {
			if old, existed := previous[name]; !existed || !reflect.DeepEqual(old, value) {
				w.notify(name)
			}
		}
	case <-ctx.Done():
		w.notify("reload_timeout")
	}
}

// resolveSnapshot reloads the document and resolves every registered field
// against fresh sources.
func (w *Watcher) resolveSnapshot() (map[string]any, error) {
	doc, err := LoadDocument(w.filePath)
	if err != nil {
		return nil, err
	}
	if w.opts.Section != "" {
		doc = doc.Section(w.opts.Section)
	}

	src := Sources{
		Environ:   CaptureEnviron(),
		Document:  doc,
		EnvPrefix: w.opts.EnvPrefix,
	}

	snapshot := make(map[string]any)
	for _, g := range w.registry.Groups() {
		for _, f := range g.Fields() {
			value, err := src.Resolve(f)
			if err != nil {
				return nil, err
			}
			snapshot[g.Name()+"."+f.Name()] = value
		}
	}
	return snapshot, nil
}

// notify sends a change notification to all subscribers.
func (w *Watcher) notify(name string) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, ch := range w.subscribers {
		select {
		case ch <- name:
			// Sent successfully
		default:
			// Channel full, skip rather than block the loop
		}
	}
}
