package server

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/orgchart/pkg/errors"
)

const defaultDebounce = 100 * time.Millisecond

// watcher reloads roster files after they change on disk. Directories are
// watched instead of files so that editors which save by rename still
// trigger a reload.
type watcher struct {
	fs       *fsnotify.Watcher
	logger   *log.Logger
	reload   func(context.Context, string)
	debounce time.Duration

	mu      sync.Mutex
	sources map[string]string // absolute path -> source as loaded
	dirs    map[string]bool
}

func newWatcher(logger *log.Logger, reload func(context.Context, string)) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "start file watcher")
	}
	return &watcher{
		fs:       fw,
		logger:   logger,
		reload:   reload,
		debounce: defaultDebounce,
		sources:  make(map[string]string),
		dirs:     make(map[string]bool),
	}, nil
}

// add starts watching source. URLs are ignored.
func (w *watcher) add(source string) {
	if errors.IsURL(source) {
		return
	}
	abs, err := filepath.Abs(source)
	if err != nil {
		w.logger.Warn("cannot watch roster", "source", source, "error", err)
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.sources[abs]; ok {
		return
	}
	dir := filepath.Dir(abs)
	if !w.dirs[dir] {
		if err := w.fs.Add(dir); err != nil {
			w.logger.Warn("cannot watch roster", "source", source, "error", err)
			return
		}
		w.dirs[dir] = true
	}
	w.sources[abs] = source
	w.logger.Debug("watching roster", "path", abs)
}

func (w *watcher) lookup(path string) (string, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	src, ok := w.sources[abs]
	return src, ok
}

// run delivers debounced reloads until ctx is cancelled.
func (w *watcher) run(ctx context.Context) error {
	defer w.fs.Close()

	pending := make(map[string]bool)
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			src, ok := w.lookup(ev.Name)
			if !ok {
				continue
			}
			pending[src] = true
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			for src := range pending {
				w.logger.Info("roster changed", "source", src)
				w.reload(ctx, src)
			}
			pending = make(map[string]bool)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", "error", err)
		}
	}
}
