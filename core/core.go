// Package core has core logic for deriving viewing statistics and running commands.
package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/reelstats/internal/contract"
	"github.com/huangsam/reelstats/internal/ingest"
	"github.com/huangsam/reelstats/internal/outwriter"
	"github.com/huangsam/reelstats/schema"
)

// ExecutorFunc defines the function signature for executing commands that need the stores.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// stdin is where "-" reads from.
var stdin io.Reader = os.Stdin

// errNoInput is returned when a command needs an export file and none was given.
var errNoInput = errors.New("no input given. Pass an export file path or '-' for stdin")

// readInput loads the export named by cfg and returns its text and display name.
func readInput(cfg *contract.Config) (raw, name string, err error) {
	switch {
	case cfg.InputPath == "":
		return "", "", errNoInput
	case cfg.ReadsStdin():
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), "stdin", nil
	default:
		data, err := os.ReadFile(cfg.InputPath)
		if err != nil {
			return "", "", fmt.Errorf("failed to read %s: %w", cfg.InputPath, err)
		}
		return string(data), filepath.Base(cfg.InputPath), nil
	}
}

// ExecuteStats derives statistics from the configured export and prints them.
// It serves as the main entry point for the 'stats' command.
func ExecuteStats(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	memo := NewMemo(mgr)
	if cfg.Watch {
		return watchStats(ctx, cfg, memo)
	}

	raw, name, err := readInput(cfg)
	if err != nil {
		return err
	}
	return runStats(withSourceName(ctx, name), cfg, memo, raw)
}

// runStats computes, prints and exports one result.
// A failed result is reported as an error after machine-readable formats are written.
func runStats(ctx context.Context, cfg *contract.Config, memo *Memo, raw string) error {
	start := time.Now()
	logStatsHeader(ctx, cfg, sourceName(ctx, "stdin"))

	result := memo.Compute(raw, cfg.AnalyticsOptions())
	if result.Failed() && cfg.Output == schema.TextOut {
		return errors.New(result.ErrorMessage())
	}

	out := outwriter.NewOutWriter()
	if err := out.WriteAnalytics(result, cfg, time.Since(start)); err != nil {
		return err
	}
	if result.Failed() {
		return errors.New(result.ErrorMessage())
	}

	if cfg.RecordsFile != "" {
		fields := ExtractFields(result.Records, cfg.GenreSeparators)
		if err := out.WriteRecords(fields, cfg); err != nil {
			return err
		}
	}
	return nil
}

// ExecuteValidate checks the structure of the configured export against the type its name implies.
// It returns an error when the file is invalid so scripts can gate on the exit code.
func ExecuteValidate(_ context.Context, cfg *contract.Config) error {
	raw, name, err := readInput(cfg)
	if err != nil {
		return err
	}

	result := ingest.ValidateText(ingest.DetectFileType(name), raw, ingest.Options{Delimiter: cfg.Delimiter})
	if err := outwriter.NewOutWriter().WriteValidation(name, result, cfg); err != nil {
		return err
	}
	if !result.Valid {
		return fmt.Errorf("%s failed validation with %d error(s)", name, len(result.Errors))
	}
	return nil
}

// ExecuteDashboard derives statistics from the first watched file of the current upload session.
func ExecuteDashboard(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	store, err := uploadStore(mgr)
	if err != nil {
		return err
	}

	files, err := store.GetFilesByType(schema.WatchedFile)
	if err != nil {
		return fmt.Errorf("failed to list watched files: %w", err)
	}
	if len(files) == 0 {
		return errors.New("no watched.csv in the current session. Run 'reelstats upload add watched.csv' first")
	}

	file := files[0]
	ctx = withSourceName(ctx, fmt.Sprintf("%s (%s)", file.Name, file.ID))
	return runStats(ctx, cfg, NewMemo(mgr), file.Data)
}
