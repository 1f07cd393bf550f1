package iocache

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/reelstats/internal/contract"
	"github.com/huangsam/reelstats/internal/ingest"
	"github.com/huangsam/reelstats/schema"
)

// Table names for uploaded files.
const (
	uploadedFilesTable = "uploaded_files"
	uploadStateTable   = "upload_state"
)

// currentSessionKey is the upload_state row holding the active session id.
const currentSessionKey = "current_session"

// UploadStoreImpl implements the UploadStore interface on a SQL database.
// The session id survives restarts so separate CLI runs share one collection.
type UploadStoreImpl struct {
	mu        sync.Mutex
	db        *sql.DB
	backend   schema.DatabaseBackend
	sessionID string
}

var _ contract.UploadStore = &UploadStoreImpl{} // Compile-time check

// NewUploadStore creates an UploadStore for the backend. The none backend keeps
// files in memory for the life of the process.
func NewUploadStore(backend schema.DatabaseBackend, connStr string) (contract.UploadStore, error) {
	if backend == schema.NoneBackend {
		return NewMemoryUploadStore(), nil
	}

	db, err := openDB(backend, connStr, contract.GetUploadDBFilePath())
	if err != nil {
		return nil, err
	}

	// Bring the schema up to date before use
	if err := runMigrations(db, backend, -1, io.Discard); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to prepare upload tables: %w", err)
	}

	store := &UploadStoreImpl{db: db, backend: backend}
	if err := store.loadSession(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// newSessionID returns an id of the form session_<unix millis>_<9 random chars>.
func newSessionID() string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("session_%d_%s", time.Now().UnixMilli(), random[:9])
}

// loadSession reads the persisted session id, creating one on first use.
func (us *UploadStoreImpl) loadSession() error {
	query := us.q(fmt.Sprintf("SELECT state_value FROM %s WHERE state_key = ?", quoteTableName(uploadStateTable, us.backend)))
	var id string
	err := us.db.QueryRow(query, currentSessionKey).Scan(&id)
	switch {
	case err == nil:
		us.sessionID = id
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return us.saveSession(newSessionID())
	default:
		return fmt.Errorf("failed to load upload session: %w", err)
	}
}

// saveSession persists id as the current session.
func (us *UploadStoreImpl) saveSession(id string) error {
	if _, err := us.db.Exec(us.getStateUpsertQuery(), currentSessionKey, id); err != nil {
		return fmt.Errorf("failed to save upload session: %w", err)
	}
	us.sessionID = id
	return nil
}

// getStateUpsertQuery returns the UPSERT query for the session state row.
func (us *UploadStoreImpl) getStateUpsertQuery() string {
	quotedTableName := quoteTableName(uploadStateTable, us.backend)
	switch us.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (state_key, state_value) VALUES (?, ?) AS new
			ON DUPLICATE KEY UPDATE state_value = new.state_value`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (state_key, state_value) VALUES ($1, $2)
			ON CONFLICT (state_key) DO UPDATE SET state_value = EXCLUDED.state_value`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (state_key, state_value) VALUES (?, ?)`, quotedTableName)
	}
}

// q adapts placeholders for the backend.
func (us *UploadStoreImpl) q(query string) string {
	return rebind(query, us.backend)
}

// SessionID implements the UploadStore interface.
func (us *UploadStoreImpl) SessionID() string {
	us.mu.Lock()
	defer us.mu.Unlock()
	return us.sessionID
}

// AddFile implements the UploadStore interface.
func (us *UploadStoreImpl) AddFile(name string, data []byte) (schema.UploadedFile, error) {
	us.mu.Lock()
	defer us.mu.Unlock()

	file := newUploadedFile(us.sessionID, name, data)
	query := us.q(fmt.Sprintf(`INSERT INTO %s (id, session_id, name, size, file_type, data, uploaded_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		quoteTableName(uploadedFilesTable, us.backend)))
	if _, err := us.db.Exec(query, file.ID, file.SessionID, file.Name, file.Size, string(file.Type), file.Data, file.UploadedAt.UnixNano()); err != nil {
		return schema.UploadedFile{}, fmt.Errorf("failed to store file %s: %w", name, err)
	}
	return file, nil
}

// newUploadedFile builds the stored form of a file, classifying it by name.
func newUploadedFile(sessionID, name string, data []byte) schema.UploadedFile {
	return schema.UploadedFile{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		Name:       name,
		Size:       int64(len(data)),
		Type:       ingest.DetectFileType(name),
		Data:       string(data),
		UploadedAt: time.Now(),
	}
}

// RemoveFile implements the UploadStore interface.
func (us *UploadStoreImpl) RemoveFile(id string) error {
	us.mu.Lock()
	defer us.mu.Unlock()

	query := us.q(fmt.Sprintf("DELETE FROM %s WHERE id = ? AND session_id = ?", quoteTableName(uploadedFilesTable, us.backend)))
	if _, err := us.db.Exec(query, id, us.sessionID); err != nil {
		return fmt.Errorf("failed to remove file %s: %w", id, err)
	}
	return nil
}

// ClearFiles implements the UploadStore interface.
func (us *UploadStoreImpl) ClearFiles() (string, error) {
	us.mu.Lock()
	defer us.mu.Unlock()

	query := us.q(fmt.Sprintf("DELETE FROM %s WHERE session_id = ?", quoteTableName(uploadedFilesTable, us.backend)))
	if _, err := us.db.Exec(query, us.sessionID); err != nil {
		return "", fmt.Errorf("failed to clear session files: %w", err)
	}
	if err := us.saveSession(newSessionID()); err != nil {
		return "", err
	}
	return us.sessionID, nil
}

// selectFilesQuery returns the base SELECT for files of a session.
func (us *UploadStoreImpl) selectFilesQuery(extra string) string {
	return us.q(fmt.Sprintf(`SELECT id, session_id, name, size, file_type, data, uploaded_at FROM %s WHERE session_id = ?%s ORDER BY uploaded_at, id`,
		quoteTableName(uploadedFilesTable, us.backend), extra))
}

// scanFile reads one uploaded_files row.
func scanFile(scan func(dest ...any) error) (schema.UploadedFile, error) {
	var f schema.UploadedFile
	var fileType string
	var uploadedAt int64
	if err := scan(&f.ID, &f.SessionID, &f.Name, &f.Size, &fileType, &f.Data, &uploadedAt); err != nil {
		return schema.UploadedFile{}, err
	}
	f.Type = schema.FileType(fileType)
	f.UploadedAt = time.Unix(0, uploadedAt)
	return f, nil
}

// queryFiles runs a file query and collects the rows.
func (us *UploadStoreImpl) queryFiles(query string, args ...any) ([]schema.UploadedFile, error) {
	rows, err := us.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer func() { _ = rows.Close() }()

	files := []schema.UploadedFile{}
	for rows.Next() {
		f, err := scanFile(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to read file row: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// GetFile implements the UploadStore interface.
func (us *UploadStoreImpl) GetFile(id string) (schema.UploadedFile, error) {
	us.mu.Lock()
	defer us.mu.Unlock()

	row := us.db.QueryRow(us.selectFilesQuery(" AND id = ?"), us.sessionID, id)
	return scanFile(row.Scan)
}

// ListFiles implements the UploadStore interface.
func (us *UploadStoreImpl) ListFiles() ([]schema.UploadedFile, error) {
	us.mu.Lock()
	defer us.mu.Unlock()
	return us.queryFiles(us.selectFilesQuery(""), us.sessionID)
}

// GetFilesByType implements the UploadStore interface.
func (us *UploadStoreImpl) GetFilesByType(fileType schema.FileType) ([]schema.UploadedFile, error) {
	us.mu.Lock()
	defer us.mu.Unlock()
	return us.queryFiles(us.selectFilesQuery(" AND file_type = ?"), us.sessionID, string(fileType))
}

// HasWatchedFile implements the UploadStore interface.
func (us *UploadStoreImpl) HasWatchedFile() (bool, error) {
	files, err := us.GetFilesByType(schema.WatchedFile)
	if err != nil {
		return false, err
	}
	return len(files) > 0, nil
}

// GetStatus implements the UploadStore interface.
func (us *UploadStoreImpl) GetStatus() (schema.UploadStatus, error) {
	us.mu.Lock()
	defer us.mu.Unlock()

	status := schema.UploadStatus{
		Backend:     string(us.backend),
		Connected:   us.db != nil,
		SessionID:   us.sessionID,
		FilesByType: map[schema.FileType]int{},
	}
	table := quoteTableName(uploadedFilesTable, us.backend)

	var lastUpload sql.NullInt64
	totalQuery := fmt.Sprintf("SELECT COUNT(*), COALESCE(SUM(size), 0), MAX(uploaded_at) FROM %s", table)
	if err := us.db.QueryRow(totalQuery).Scan(&status.TotalFiles, &status.TotalBytes, &lastUpload); err != nil {
		return status, fmt.Errorf("failed to get upload totals: %w", err)
	}
	if lastUpload.Valid {
		status.LastUploadTime = time.Unix(0, lastUpload.Int64)
	}

	typeQuery := us.q(fmt.Sprintf("SELECT file_type, COUNT(*) FROM %s WHERE session_id = ? GROUP BY file_type", table))
	rows, err := us.db.Query(typeQuery, us.sessionID)
	if err != nil {
		return status, fmt.Errorf("failed to count session files: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var fileType string
		var count int
		if err := rows.Scan(&fileType, &count); err != nil {
			return status, fmt.Errorf("failed to read session counts: %w", err)
		}
		status.FilesByType[schema.FileType(fileType)] = count
		status.SessionFiles += count
	}
	return status, rows.Err()
}

// Close implements the UploadStore interface.
func (us *UploadStoreImpl) Close() error {
	if us.db != nil {
		return us.db.Close()
	}
	return nil
}
