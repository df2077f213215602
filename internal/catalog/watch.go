package catalog

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"orcafacil/internal"
)

// Watcher reloads a catalog file whenever it is written or recreated. The
// parent directory is watched because editors often replace files on save.
type Watcher struct {
	path     string
	onChange func([]internal.CatalogItem)
	fsw      *fsnotify.Watcher
	debounce time.Duration
}

func NewWatcher(path string, onChange func([]internal.CatalogItem)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return &Watcher{path: abs, onChange: onChange, fsw: fsw, debounce: 200 * time.Millisecond}, nil
}

// Run blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C
		case <-fire:
			fire = nil
			w.reload()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Str("path", w.path).Msg("catalog watcher error")
		}
	}
}

func (w *Watcher) reload() {
	items, err := LoadFile(w.path)
	if err != nil {
		log.Warn().Err(err).Str("path", w.path).Msg("catalog reload failed")
		return
	}
	log.Info().Str("path", w.path).Int("items", len(items)).Msg("catalog reloaded")
	w.onChange(items)
}
