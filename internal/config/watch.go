package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/VeerOneGPT/galileo-motion/internal/core/observability/log"
)

// Watch hot-reloads the config file, invoking onChange with each valid new
// version. A file that fails to load is logged and skipped; the previous
// config stays in effect. Watch blocks until the context is cancelled.
//
// The parent directory is watched rather than the file itself, so editors
// that replace the file by rename keep triggering reloads.
func Watch(ctx context.Context, path string, logger log.Log, onChange func(EngineConfig)) error {
	if logger == nil {
		logger = log.Nop()
	}
	logger = logger.With(log.String("component", "config.watch"), log.String("path", path))

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err = watcher.Add(dir); err != nil {
		return fmt.Errorf("watch config dir %s: %w", dir, err)
	}

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			cfg, err := Load(path)
			if err != nil {
				logger.Warn("config reload failed, keeping previous", log.Err(err))
				continue
			}
			logger.Info("config reloaded")
			onChange(cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher error", log.Err(err))
		}
	}
}
