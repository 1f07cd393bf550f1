// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"github.com/huangsam/reelstats/schema"
)

// CacheManager defines the interface for managing the result cache and the upload store.
// This allows the storage layer to be mocked for testing.
type CacheManager interface {
	GetResultStore() CacheStore
	GetUploadStore() UploadStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// UploadStore defines the interface for the session-scoped collection of uploaded export files.
// Only files belonging to the current session are visible.
type UploadStore interface {
	// SessionID returns the identifier of the current session.
	SessionID() string

	// AddFile stores a file under the current session, classifying it by name.
	AddFile(name string, data []byte) (schema.UploadedFile, error)

	// RemoveFile deletes one file of the current session. Unknown ids are not an error.
	RemoveFile(id string) error

	// ClearFiles deletes every file of the current session and starts a new one.
	// It returns the new session id.
	ClearFiles() (string, error)

	// GetFile returns one file of the current session, or sql.ErrNoRows.
	GetFile(id string) (schema.UploadedFile, error)

	// ListFiles returns the files of the current session in upload order.
	ListFiles() ([]schema.UploadedFile, error)

	// GetFilesByType returns the files of the current session with the given type.
	GetFilesByType(fileType schema.FileType) ([]schema.UploadedFile, error)

	// HasWatchedFile reports whether the current session holds a watched file.
	HasWatchedFile() (bool, error)

	// GetStatus returns status information about the upload store
	GetStatus() (schema.UploadStatus, error)

	// Close closes the underlying connection
	Close() error
}
