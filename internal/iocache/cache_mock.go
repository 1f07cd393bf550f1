package iocache

import (
	"github.com/huangsam/reelstats/internal/contract"
	"github.com/huangsam/reelstats/schema"
	"github.com/stretchr/testify/mock"
)

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetResultStore implements the CacheManager interface.
func (m *MockCacheManager) GetResultStore() contract.CacheStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.CacheStore)
	return store
}

// GetUploadStore implements the CacheManager interface.
func (m *MockCacheManager) GetUploadStore() contract.UploadStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.UploadStore)
	return store
}

// MockCacheStore is a mock implementation of CacheStore for testing.
type MockCacheStore struct {
	mock.Mock
}

var _ contract.CacheStore = &MockCacheStore{} // Compile-time check

// Get implements the CacheStore interface.
func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	return data, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the CacheStore interface.
func (m *MockCacheStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// Close implements the CacheStore interface.
func (m *MockCacheStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the CacheStore interface.
func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// MockUploadStore is a mock implementation of UploadStore for testing.
type MockUploadStore struct {
	mock.Mock
}

var _ contract.UploadStore = &MockUploadStore{} // Compile-time check

// SessionID implements the UploadStore interface.
func (m *MockUploadStore) SessionID() string {
	return m.Called().String(0)
}

// AddFile implements the UploadStore interface.
func (m *MockUploadStore) AddFile(name string, data []byte) (schema.UploadedFile, error) {
	args := m.Called(name, data)
	return args.Get(0).(schema.UploadedFile), args.Error(1)
}

// RemoveFile implements the UploadStore interface.
func (m *MockUploadStore) RemoveFile(id string) error {
	return m.Called(id).Error(0)
}

// ClearFiles implements the UploadStore interface.
func (m *MockUploadStore) ClearFiles() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

// GetFile implements the UploadStore interface.
func (m *MockUploadStore) GetFile(id string) (schema.UploadedFile, error) {
	args := m.Called(id)
	return args.Get(0).(schema.UploadedFile), args.Error(1)
}

// ListFiles implements the UploadStore interface.
func (m *MockUploadStore) ListFiles() ([]schema.UploadedFile, error) {
	args := m.Called()
	files, _ := args.Get(0).([]schema.UploadedFile)
	return files, args.Error(1)
}

// GetFilesByType implements the UploadStore interface.
func (m *MockUploadStore) GetFilesByType(fileType schema.FileType) ([]schema.UploadedFile, error) {
	args := m.Called(fileType)
	files, _ := args.Get(0).([]schema.UploadedFile)
	return files, args.Error(1)
}

// HasWatchedFile implements the UploadStore interface.
func (m *MockUploadStore) HasWatchedFile() (bool, error) {
	args := m.Called()
	return args.Bool(0), args.Error(1)
}

// GetStatus implements the UploadStore interface.
func (m *MockUploadStore) GetStatus() (schema.UploadStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.UploadStatus), args.Error(1)
}

// Close implements the UploadStore interface.
func (m *MockUploadStore) Close() error {
	return m.Called().Error(0)
}
