package schema

import "time"

// CacheStatus represents the status of the result cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// UploadStatus represents the status of the upload store.
type UploadStatus struct {
	Backend        string           `json:"backend"`
	Connected      bool             `json:"connected"`
	SessionID      string           `json:"session_id"`
	SessionFiles   int              `json:"session_files"`
	TotalFiles     int              `json:"total_files"`
	TotalBytes     int64            `json:"total_bytes"`
	LastUploadTime time.Time        `json:"last_upload_time"`
	FilesByType    map[FileType]int `json:"files_by_type"`
}

// UploadedFile is an export file held by the upload store for one session.
type UploadedFile struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	Type       FileType  `json:"type"`
	Data       string    `json:"-"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// ValidationResult reports whether an export file has the structure its type requires.
type ValidationResult struct {
	FileType FileType `json:"file_type"`
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Headers  []string `json:"headers"`
	RowCount int      `json:"row_count"`
}
