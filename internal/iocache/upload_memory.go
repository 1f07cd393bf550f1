package iocache

import (
	"database/sql"
	"slices"
	"sync"
	"time"

	"github.com/huangsam/reelstats/internal/contract"
	"github.com/huangsam/reelstats/schema"
)

// MemoryUploadStore keeps uploaded files in process memory.
// It backs the none backend and the MCP server.
type MemoryUploadStore struct {
	mu        sync.RWMutex
	sessionID string
	files     []schema.UploadedFile
}

var _ contract.UploadStore = &MemoryUploadStore{} // Compile-time check

// NewMemoryUploadStore returns an empty store with a fresh session.
func NewMemoryUploadStore() *MemoryUploadStore {
	return &MemoryUploadStore{sessionID: newSessionID()}
}

// SessionID implements the UploadStore interface.
func (ms *MemoryUploadStore) SessionID() string {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return ms.sessionID
}

// AddFile implements the UploadStore interface.
func (ms *MemoryUploadStore) AddFile(name string, data []byte) (schema.UploadedFile, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	file := newUploadedFile(ms.sessionID, name, data)
	ms.files = append(ms.files, file)
	return file, nil
}

// RemoveFile implements the UploadStore interface.
func (ms *MemoryUploadStore) RemoveFile(id string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.files = slices.DeleteFunc(ms.files, func(f schema.UploadedFile) bool { return f.ID == id })
	return nil
}

// ClearFiles implements the UploadStore interface.
func (ms *MemoryUploadStore) ClearFiles() (string, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.files = nil
	ms.sessionID = newSessionID()
	return ms.sessionID, nil
}

// GetFile implements the UploadStore interface.
func (ms *MemoryUploadStore) GetFile(id string) (schema.UploadedFile, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	for _, f := range ms.files {
		if f.ID == id {
			return f, nil
		}
	}
	return schema.UploadedFile{}, sql.ErrNoRows
}

// ListFiles implements the UploadStore interface.
func (ms *MemoryUploadStore) ListFiles() ([]schema.UploadedFile, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	files := slices.Clone(ms.files)
	if files == nil {
		files = []schema.UploadedFile{}
	}
	return files, nil
}

// GetFilesByType implements the UploadStore interface.
func (ms *MemoryUploadStore) GetFilesByType(fileType schema.FileType) ([]schema.UploadedFile, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	files := []schema.UploadedFile{}
	for _, f := range ms.files {
		if f.Type == fileType {
			files = append(files, f)
		}
	}
	return files, nil
}

// HasWatchedFile implements the UploadStore interface.
func (ms *MemoryUploadStore) HasWatchedFile() (bool, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return slices.ContainsFunc(ms.files, func(f schema.UploadedFile) bool { return f.Type == schema.WatchedFile }), nil
}

// GetStatus implements the UploadStore interface.
func (ms *MemoryUploadStore) GetStatus() (schema.UploadStatus, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	status := schema.UploadStatus{
		Backend:      string(schema.NoneBackend),
		Connected:    true,
		SessionID:    ms.sessionID,
		SessionFiles: len(ms.files),
		TotalFiles:   len(ms.files),
		FilesByType:  map[schema.FileType]int{},
	}
	var last time.Time
	for _, f := range ms.files {
		status.TotalBytes += f.Size
		status.FilesByType[f.Type]++
		if f.UploadedAt.After(last) {
			last = f.UploadedAt
		}
	}
	status.LastUploadTime = last
	return status, nil
}

// Close implements the UploadStore interface.
func (ms *MemoryUploadStore) Close() error {
	return nil
}
