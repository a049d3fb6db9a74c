package config

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	xgxcontext "github.com/xgx-io/xgx-context"
)

// ChangeHandler receives the reloaded configuration, or the error that kept
// it from loading. Handlers run on the watch goroutine.
type ChangeHandler func(cfg xgxcontext.Config, err error)

// Watch reloads path with opts every time it is written or recreated and
// hands the result to onChange. It blocks until ctx is cancelled or the
// watcher fails to start, so run it in a goroutine:
//
//	go config.Watch(ctx, "xgx.toml", config.LoadOptions{}, func(cfg xgxcontext.Config, err error) {
//		if err == nil {
//			current.Store(xgxcontext.NewSession(cfg))
//		}
//	})
//
// The parent directory is watched rather than the file, so editors that
// replace the file by renaming keep triggering reloads.
func Watch(ctx context.Context, path string, opts LoadOptions, onChange ChangeHandler) error {
	if onChange == nil {
		return xgxcontext.New("config watch needs a change handler").
			Code(xgxcontext.CodeInvalidArgument)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return xgxcontext.Wrap(err, "creating config watcher").
			Code(xgxcontext.CodeInitialization)
	}
	defer watcher.Close()

	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return xgxcontext.Wrap(err, "watching config directory", "path", path).
			Code(xgxcontext.CodeInitialization)
	}

	slog.Debug("Started watching config file", "path", target)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := LoadWithOptions(path, opts)
			if err != nil {
				slog.Warn("Config reload failed", "path", target, "error", err)
			} else {
				slog.Info("Config reloaded", "path", target)
			}
			onChange(cfg, err)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Config watcher error", "path", target, "error", err)

		case <-ctx.Done():
			slog.Debug("Config watcher stopping", "path", target)
			return nil
		}
	}
}
