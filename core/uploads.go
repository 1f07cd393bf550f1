package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/reelstats/internal/contract"
	"github.com/huangsam/reelstats/internal/ingest"
	"github.com/huangsam/reelstats/internal/outwriter"
	"github.com/huangsam/reelstats/schema"
)

// msgUnknownUpload is returned for files whose name matches no export type.
const msgUnknownUpload = "Unknown file type. Expected: watched.csv, ratings.csv, diary.csv"

// uploadStore returns the configured upload store or an error when none is set up.
func uploadStore(mgr contract.CacheManager) (contract.UploadStore, error) {
	if mgr == nil || mgr.GetUploadStore() == nil {
		return nil, errors.New("upload store is not configured")
	}
	return mgr.GetUploadStore(), nil
}

// checkUpload classifies and validates one export before it is stored.
func checkUpload(name string, data []byte, delimiter rune) (schema.ValidationResult, error) {
	fileType := ingest.DetectFileType(name)
	if fileType == schema.UnknownFile {
		return schema.ValidationResult{}, fmt.Errorf("%s: %s", name, msgUnknownUpload)
	}
	result := ingest.ValidateText(fileType, string(data), ingest.Options{Delimiter: delimiter})
	if !result.Valid {
		return result, fmt.Errorf("%s: %s", name, strings.Join(result.Errors, "; "))
	}
	return result, nil
}

// ExecuteUploadAdd validates and stores export files in the current session.
// Files are checked one by one; the first invalid file stops the run.
func ExecuteUploadAdd(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, paths []string) error {
	store, err := uploadStore(mgr)
	if err != nil {
		return err
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		name := filepath.Base(path)

		result, err := checkUpload(name, data, cfg.Delimiter)
		if err != nil {
			return err
		}
		file, err := store.AddFile(name, data)
		if err != nil {
			return fmt.Errorf("failed to store %s: %w", name, err)
		}
		logNotice(ctx, cfg, "📥", "Uploaded %s (%s, %d rows) as %s", name, file.Type, result.RowCount, file.ID)
	}
	return nil
}

// ExecuteUploadList prints the files of the current session.
func ExecuteUploadList(_ context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	store, err := uploadStore(mgr)
	if err != nil {
		return err
	}
	files, err := store.ListFiles()
	if err != nil {
		return fmt.Errorf("failed to list uploads: %w", err)
	}
	return outwriter.NewOutWriter().WriteUploads(store.SessionID(), files, cfg)
}

// ExecuteUploadRemove deletes files of the current session by id.
// Ids that do not belong to the session are reported and skipped.
func ExecuteUploadRemove(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, ids []string) error {
	store, err := uploadStore(mgr)
	if err != nil {
		return err
	}

	for _, id := range ids {
		file, err := store.GetFile(id)
		if err != nil {
			contract.LogWarn(fmt.Sprintf("No upload with id %s in the current session", id), err)
			continue
		}
		if err := store.RemoveFile(id); err != nil {
			return fmt.Errorf("failed to remove %s: %w", id, err)
		}
		logNotice(ctx, cfg, "🗑️", "Removed %s (%s)", file.Name, id)
	}
	return nil
}

// ExecuteUploadClear deletes every file of the current session and starts a new session.
func ExecuteUploadClear(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	store, err := uploadStore(mgr)
	if err != nil {
		return err
	}
	previous := store.SessionID()
	next, err := store.ClearFiles()
	if err != nil {
		return fmt.Errorf("failed to clear uploads: %w", err)
	}
	logNotice(ctx, cfg, "🧹", "Cleared session %s. New session: %s", previous, next)
	return nil
}
