// Package watch re-runs a build whenever a definition file changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce collapses editor save bursts into one rebuild.
const DefaultDebounce = 200 * time.Millisecond

// Watcher watches a set of files through their parent directories, so
// editors that replace files on save are still observed.
type Watcher struct {
	logger   zerolog.Logger
	debounce time.Duration
}

// New creates a watcher. A non-positive debounce uses DefaultDebounce.
func New(logger zerolog.Logger, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{logger: logger, debounce: debounce}
}

// Run blocks until ctx is canceled, calling onChange once per burst of
// changes to any of files. onChange errors are logged and watching
// continues.
func (w *Watcher) Run(ctx context.Context, files []string, onChange func(context.Context) error) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if len(files) == 0 {
		return errors.New("no files to watch")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	watched := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", file, err)
		}
		watched[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	w.logger.Info().Strs("files", files).Dur("debounce", w.debounce).Msg("watching definitions")

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("watch stopped")
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !isRelevant(event, watched) {
				continue
			}
			w.logger.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("definition changed")
			pending = time.After(w.debounce)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("watch error")
		case <-pending:
			pending = nil
			if err := onChange(ctx); err != nil {
				w.logger.Error().Err(err).Msg("rebuild failed")
			}
		}
	}
}

func isRelevant(event fsnotify.Event, watched map[string]bool) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return watched[abs]
}
