package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/macropower/aspects/pkg/log"
)

// Watch calls fn each time the file at path is written, created, renamed or
// removed, until ctx is done. The parent directory is watched, so editors
// that replace the file on save are handled.
func Watch(ctx context.Context, path string, fn func(ctx context.Context, evt fsnotify.Event)) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("get absolute path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}

	logger := log.WithContext(ctx)

	defer func() {
		err := watcher.Close()
		if err != nil {
			logger.ErrorContext(ctx, "close watcher", slog.Any("err", err))
		}
	}()

	err = watcher.Add(filepath.Dir(absPath))
	if err != nil {
		return fmt.Errorf("add path to watcher: %w", err)
	}

	logger.DebugContext(ctx, "watching taste config", slog.String("path", absPath))

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(evt.Name) != absPath {
				continue
			}

			// Ignore events that are not related to file content changes.
			if evt.Has(fsnotify.Chmod) {
				continue
			}

			fn(ctx, evt)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			logger.ErrorContext(ctx, "watch taste config", slog.Any("err", err))
		}
	}
}
