package source

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vango-dev/docroutes/pkg/routetable"
)

// WatcherConfig configures the table watcher.
type WatcherConfig struct {
	// Loader produces the table on every reload.
	Loader Loader

	// Versioner detects changes. Defaults to the Loader when it implements
	// Versioner; otherwise the table is loaded on every poll and compared by
	// fingerprint.
	Versioner Versioner

	// Interval is the polling period.
	Interval time.Duration

	// Logger receives reload and error lines.
	Logger *slog.Logger
}

// Watcher polls a source and reloads the table when it changes.
type Watcher struct {
	config   WatcherConfig
	logger   *slog.Logger
	onReload func(*routetable.Table)
	onError  func(error)

	mu          sync.Mutex
	running     bool
	stopCh      chan struct{}
	version     string
	fingerprint string
}

// NewWatcher creates a new table watcher.
func NewWatcher(config WatcherConfig) *Watcher {
	if config.Interval <= 0 {
		config.Interval = 2 * time.Second
	}
	if config.Versioner == nil {
		if v, ok := config.Loader.(Versioner); ok {
			config.Versioner = v
		}
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		config: config,
		logger: logger.With("component", "source-watcher", "source", config.Loader.Describe()),
	}
}

// OnReload sets the callback receiving each changed table.
func (w *Watcher) OnReload(fn func(*routetable.Table)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReload = fn
}

// OnError sets the callback receiving poll and load failures. The previously
// loaded table stays in service.
func (w *Watcher) OnError(fn func(error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = fn
}

// Prime records the version of the table already in service so the first
// poll does not reload it.
func (w *Watcher) Prime(ctx context.Context, table *routetable.Table) {
	version := ""
	if w.config.Versioner != nil {
		if v, err := w.config.Versioner.Version(ctx); err == nil {
			version = v
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.version = version
	if table != nil {
		w.fingerprint = table.Fingerprint()
	}
}

// Start polls until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	stopCh := w.stopCh
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			w.Check(ctx)
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		close(w.stopCh)
		w.running = false
	}
}

// IsRunning returns whether the watcher is running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Check runs one poll. It reports whether a new table was delivered.
func (w *Watcher) Check(ctx context.Context) bool {
	w.mu.Lock()
	lastVersion := w.version
	lastFingerprint := w.fingerprint
	w.mu.Unlock()

	version := ""
	if w.config.Versioner != nil {
		v, err := w.config.Versioner.Version(ctx)
		if err != nil {
			w.fail(err)
			return false
		}
		if v == lastVersion && lastFingerprint != "" {
			return false
		}
		version = v
	}

	table, err := w.config.Loader.Load(ctx)
	if err != nil {
		w.fail(err)
		return false
	}

	w.mu.Lock()
	w.version = version
	changed := table.Fingerprint() != w.fingerprint
	w.fingerprint = table.Fingerprint()
	callback := w.onReload
	w.mu.Unlock()

	if !changed {
		// Touched but identical content.
		return false
	}

	w.logger.Info("route table reloaded",
		"entries", table.Len(),
		"fingerprint", table.Fingerprint()[:12])
	if callback != nil {
		callback(table)
	}
	return true
}

func (w *Watcher) fail(err error) {
	w.logger.Warn("route table reload failed", "error", err)

	w.mu.Lock()
	callback := w.onError
	w.mu.Unlock()
	if callback != nil {
		callback(err)
	}
}
