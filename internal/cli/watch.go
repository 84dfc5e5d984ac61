package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	imageutil "github.com/jmylchreest/prism/internal/image"
)

// watchDebounce coalesces the burst of events an editor save produces.
const watchDebounce = 150 * time.Millisecond

var (
	errWatchSource   = errors.New("--watch needs a local file, not a URL or stdin")
	errWatchNotImage = errors.New("--watch needs a file with a supported image extension")
)

// watch runs fn once, then again after every change to path until ctx is
// cancelled. Failures of individual runs are logged, not returned.
//
// The parent directory is watched rather than the file so that editors which
// save by rename keep triggering.
func (a *app) watch(ctx context.Context, path string, fn func(context.Context) error) error {
	if path == imageutil.StdinSource || imageutil.IsURL(path) {
		return errWatchSource
	}
	if !imageutil.IsImageFile(path) {
		return fmt.Errorf("%w (%s): %s", errWatchNotImage, strings.Join(imageutil.SupportedImageExtensions(), ", "), path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	logger := a.logger.Named("watch")
	if err := fn(ctx); err != nil {
		logger.Error("analysis failed", "error", err)
	}
	logger.Info("watching for changes", "path", abs)

	timer := time.NewTimer(watchDebounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Trace("file event", "op", event.Op.String())
			timer.Reset(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)

		case <-timer.C:
			logger.Debug("file changed, re-analysing", "path", abs)
			if err := fn(ctx); err != nil {
				logger.Error("analysis failed", "error", err)
			}
		}
	}
}
