package appearance

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/waycrate/xdg-desktop-portal-luminous/internal/logging"
)

var log = logging.L("appearance")

// retryInterval governs re-adding the watch if the config directory does
// not exist yet at startup (matching claude_jsonl_watcher.go's retry
// ticker for a directory that may not exist when watching begins).
const retryInterval = 5 * time.Second

// ChangeFunc is invoked once per property on every reload, in the fixed
// order color-scheme, accent-color, contrast, reduced-motion (§4.G,
// mirroring update_settings's four unconditional setting_changed calls).
type ChangeFunc func(key string, value uint32, rgb [3]float64)

// Watcher loads config.toml, watches its parent directory, and re-reads
// the file on any Create or Modify event (§4.G).
type Watcher struct {
	path string
	dir  string

	onChange ChangeFunc

	mu      sync.Mutex
	current Config

	fsw    *fsnotify.Watcher
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewWatcher loads path once (falling back to Default() on any error)
// and prepares a watcher on its parent directory. onChange is not called
// for this initial load — callers read Current() for the startup value
// and call Start to begin reacting to changes.
func NewWatcher(path string, onChange ChangeFunc) *Watcher {
	return &Watcher{
		path:     path,
		dir:      filepath.Dir(path),
		onChange: onChange,
		current:  Load(path),
	}
}

// Current returns the most recently loaded config.
func (w *Watcher) Current() Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Start begins watching the config directory. Safe to call once.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.fsw = fsw
	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.done = make(chan struct{})

	if err := fsw.Add(w.dir); err != nil {
		log.Warn("failed to watch appearance config dir, will retry", "dir", w.dir, logging.KeyError, err)
	}

	go w.loop()
	return nil
}

// Stop ends the watch and releases the inotify fd.
func (w *Watcher) Stop() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	<-w.done
	w.fsw.Close()
}

func (w *Watcher) loop() {
	defer close(w.done)

	retry := time.NewTicker(retryInterval)
	defer retry.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-retry.C:
			_ = w.fsw.Add(w.dir)

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Name != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.reload()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Warn("appearance watcher error", logging.KeyError, err)
		}
	}
}

// reload re-reads the config file and emits SettingChanged for every
// property, unconditionally — the original does not diff old vs new
// before signaling (backend.rs's update_settings sends all four every
// time the file changes).
func (w *Watcher) reload() {
	cfg := Load(w.path)

	w.mu.Lock()
	w.current = cfg
	w.mu.Unlock()

	if w.onChange == nil {
		return
	}
	w.onChange("color-scheme", cfg.ColorSchemeCode(), [3]float64{})
	w.onChange("accent-color", 0, cfg.AccentColorTriple())
	w.onChange("contrast", cfg.ContrastCode(), [3]float64{})
	w.onChange("reduced-motion", cfg.ReducedMotionCode(), [3]float64{})
}
