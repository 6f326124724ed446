package mcp

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// debounceDefault is the default debounce interval for config file events.
const debounceDefault = 200 * time.Millisecond

// ConfigWatcher triggers a reload when the configuration file changes.
// It watches the parent directory rather than the file itself, so
// editors that replace the file by rename keep being observed.
type ConfigWatcher struct {
	path     string
	reload   func() error
	debounce time.Duration
	log      *zap.Logger
}

// NewConfigWatcher creates a watcher for the config file at path.
func NewConfigWatcher(path string, reload func() error, log *zap.Logger) *ConfigWatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &ConfigWatcher{
		path:     path,
		reload:   reload,
		debounce: debounceDefault,
		log:      log,
	}
}

// Run watches the config file for changes. Blocks until ctx is cancelled.
func (w *ConfigWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	name := filepath.Base(w.path)

	// Single debounce timer — reset on each event, no goroutines.
	// Initialized as stopped; first event starts it.
	debounceTimer := time.NewTimer(w.debounce)
	debounceTimer.Stop()
	defer debounceTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-debounceTimer.C:
			if err := w.reload(); err != nil {
				w.log.Warn("config reload failed", zap.Error(err))
			}

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			if !debounceTimer.Stop() {
				select {
				case <-debounceTimer.C:
				default:
				}
			}
			debounceTimer.Reset(w.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			_ = err
		}
	}
}
