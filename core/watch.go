package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/huangsam/reelstats/internal/contract"
)

// watchDebounce is how long a file must stay quiet before it is re-read.
const watchDebounce = 300 * time.Millisecond

// watchStats prints statistics for the configured file and again every time it changes.
// It returns when ctx is cancelled.
func watchStats(ctx context.Context, cfg *contract.Config, memo *Memo) error {
	if cfg.InputPath == "" || cfg.ReadsStdin() {
		return fmt.Errorf("--watch needs a file path")
	}

	rerun := func() {
		raw, name, err := readInput(cfg)
		if err != nil {
			contract.LogWarn("Cannot read watched file", err)
			return
		}
		if err := runStats(withSourceName(ctx, name), cfg, memo, raw); err != nil {
			contract.LogWarn("Cannot compute statistics", err)
		}
	}

	rerun()
	logNotice(ctx, cfg, "👀", "Watching %s for changes (Ctrl+C to stop)", cfg.InputPath)
	return watchFile(ctx, cfg.InputPath, watchDebounce, rerun)
}

// watchFile calls onChange once path has settled after each write or replacement.
// The parent directory is watched so editors that save by renaming are seen too.
func watchFile(ctx context.Context, path string, debounce time.Duration, onChange func()) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if _, err := os.Stat(target); err != nil {
		return fmt.Errorf("cannot watch %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	if err := fsw.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}

	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	var pending time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.Now()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			contract.LogWarn("Watcher error", err)

		case <-ticker.C:
			if pending.IsZero() || time.Since(pending) < debounce {
				continue
			}
			pending = time.Time{}
			onChange()
		}
	}
}
