package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/buildreloc/internal/logfields"
)

// DefaultDebounce collapses the burst of events editors emit on save.
const DefaultDebounce = 2 * time.Second

// ConfigWatcher monitors the configuration and Gradle settings files and
// calls onChange once per debounced burst of changes.
type ConfigWatcher struct {
	files        map[string]struct{}
	dirs         []string
	watcher      *fsnotify.Watcher
	debounceTime time.Duration
	onChange     func(ctx context.Context)
}

// NewConfigWatcher creates a watcher for files. Empty entries are skipped.
func NewConfigWatcher(files []string, debounce time.Duration, onChange func(ctx context.Context)) (*ConfigWatcher, error) {
	if onChange == nil {
		return nil, fmt.Errorf("change callback is required")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	cw := &ConfigWatcher{
		files:        make(map[string]struct{}, len(files)),
		debounceTime: debounce,
		onChange:     onChange,
	}
	seenDirs := make(map[string]struct{})
	for _, f := range files {
		if f == "" {
			continue
		}
		absPath, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve watched path %s: %w", f, err)
		}
		cw.files[absPath] = struct{}{}
		// Watch the containing directory: editors replace files by rename.
		dir := filepath.Dir(absPath)
		if _, ok := seenDirs[dir]; !ok {
			seenDirs[dir] = struct{}{}
			cw.dirs = append(cw.dirs, dir)
		}
	}
	if len(cw.files) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	cw.watcher = watcher
	return cw, nil
}

// Run watches until ctx is cancelled. The underlying watcher is closed on
// return, so Run may only be called once.
func (cw *ConfigWatcher) Run(ctx context.Context) error {
	defer func() {
		if err := cw.watcher.Close(); err != nil {
			slog.Error("Error closing file watcher", logfields.Error(err))
		}
	}()

	for _, dir := range cw.dirs {
		if err := cw.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}
	slog.Info("Starting configuration watcher", slog.Int("files", len(cw.files)))

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			slog.Info("Stopping configuration watcher")
			return nil

		case event, ok := <-cw.watcher.Events:
			if !ok {
				return nil
			}
			if _, watched := cw.files[filepath.Clean(event.Name)]; !watched {
				continue
			}
			if event.Has(fsnotify.Remove) {
				slog.Warn("Watched file removed", logfields.File(event.Name))
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			slog.Debug("Watched file changed", logfields.File(event.Name), slog.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(cw.debounceTime)
			} else {
				timer.Reset(cw.debounceTime)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			cw.onChange(ctx)

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("Config watcher error", logfields.Error(err))
		}
	}
}
