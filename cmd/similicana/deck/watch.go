package deckcmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/papercomputeco/similicana/pkg/cliui"
)

// settleDelay coalesces the burst of events editors emit for one save.
const settleDelay = 150 * time.Millisecond

// watch analyzes path once and again after every change until ctx is done.
// The parent directory is watched so editors that save by renaming a
// temporary file over path are followed.
func watch(ctx context.Context, path string, w io.Writer, logger *slog.Logger, analyze func(decklist string) error) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving decklist path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	run := func() {
		data, err := os.ReadFile(abs)
		if err != nil {
			logger.Warn("could not read decklist", "path", abs, "error", err)
			return
		}
		if err := analyze(string(data)); err != nil && !errors.Is(err, cliui.ErrReported) {
			logger.Error("deck analysis failed", "error", err)
		}
		fmt.Fprintf(w, "\n  %s\n", cliui.DimStyle.Render("Watching "+path+" for changes. Press Ctrl+C to stop."))
	}

	run()

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != abs || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			logger.Debug("decklist changed", "op", event.Op.String())
			settle = time.After(settleDelay)

		case <-settle:
			settle = nil
			run()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", "error", err)
		}
	}
}
