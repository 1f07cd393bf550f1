package core

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/huangsam/reelstats/internal/iocache"
	"github.com/huangsam/reelstats/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const smallCSV = "Name,Watched Date,Rating\nHeat,2024-01-01,5\nRonin,2024-01-02,4\n"

// mockStores wires a mock result store into a mock manager.
func mockStores() (*iocache.MockCacheManager, *iocache.MockCacheStore) {
	store := &iocache.MockCacheStore{}
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetResultStore").Return(store)
	return mgr, store
}

// encodeEntry builds the stored form of a result.
func encodeEntry(t *testing.T, result schema.Analytics) []byte {
	t.Helper()
	data, err := json.Marshal(cacheEntry{Result: result, Records: result.Records})
	require.NoError(t, err)
	return data
}

func TestCachedComputeWithoutStore(t *testing.T) {
	assert.Equal(t, 2, CachedCompute(smallCSV, schema.AnalyticsOptions{}, nil).TotalMovies)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetResultStore").Return(nil)
	assert.Equal(t, 2, CachedCompute(smallCSV, schema.AnalyticsOptions{}, mgr).TotalMovies)
	mgr.AssertExpectations(t)
}

func TestCachedComputeHit(t *testing.T) {
	mgr, store := mockStores()
	opts := schema.AnalyticsOptions{}
	key := generateCacheKey(smallCSV, opts)

	cached := schema.NewAnalytics()
	cached.TotalMovies = 42
	cached.Records = []schema.Record{{"Name": "Cached"}}
	store.On("Get", key).Return(encodeEntry(t, cached), currentCacheVersion, time.Now().Unix(), nil)

	result := CachedCompute(smallCSV, opts, mgr)
	assert.Equal(t, 42, result.TotalMovies)
	assert.Equal(t, []schema.Record{{"Name": "Cached"}}, result.Records)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCachedComputeMiss(t *testing.T) {
	opts := schema.AnalyticsOptions{}
	key := generateCacheKey(smallCSV, opts)
	stale := time.Now().Add(-cacheTTL - time.Hour).Unix()

	tests := []struct {
		name    string
		data    []byte
		version int
		ts      int64
		err     error
	}{
		{"not found", nil, 0, int64(0), sql.ErrNoRows},
		{"stale entry", []byte(`{}`), currentCacheVersion, stale, nil},
		{"old version", []byte(`{}`), currentCacheVersion + 1, time.Now().Unix(), nil},
		{"corrupt entry", []byte(`{`), currentCacheVersion, time.Now().Unix(), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr, store := mockStores()
			store.On("Get", key).Return(tt.data, tt.version, tt.ts, tt.err)
			store.On("Set", key, mock.Anything, currentCacheVersion, mock.AnythingOfType("int64")).Return(nil)

			result := CachedCompute(smallCSV, opts, mgr)
			assert.Equal(t, 2, result.TotalMovies)
			store.AssertExpectations(t)
		})
	}
}

func TestCachedComputeSkipsFailedResults(t *testing.T) {
	mgr, store := mockStores()
	store.On("Get", mock.Anything).Return(nil, 0, int64(0), sql.ErrNoRows)

	result := CachedCompute("   ", schema.AnalyticsOptions{}, mgr)
	assert.True(t, result.Failed())
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCachedComputeRoundTrip(t *testing.T) {
	mgr, store := mockStores()
	opts := schema.AnalyticsOptions{TopWatchDates: 3}
	key := generateCacheKey(smallCSV, opts)

	var stored []byte
	store.On("Get", key).Return(nil, 0, int64(0), sql.ErrNoRows).Once()
	store.On("Set", key, mock.Anything, currentCacheVersion, mock.AnythingOfType("int64")).
		Run(func(args mock.Arguments) { stored = args.Get(1).([]byte) }).
		Return(nil)
	first := CachedCompute(smallCSV, opts, mgr)

	store.On("Get", key).Return(stored, currentCacheVersion, time.Now().Unix(), nil)
	second := CachedCompute(smallCSV, opts, mgr)

	assert.Equal(t, first, second)
	assert.Len(t, second.Records, 2)
}

func TestGenerateCacheKey(t *testing.T) {
	base := generateCacheKey(smallCSV, schema.AnalyticsOptions{})

	assert.Len(t, base, 64)
	assert.Equal(t, base, generateCacheKey(smallCSV, schema.AnalyticsOptions{}))
	assert.NotEqual(t, base, generateCacheKey(smallCSV+"\n", schema.AnalyticsOptions{}))
	assert.NotEqual(t, base, generateCacheKey(smallCSV, schema.AnalyticsOptions{TopWatchDates: 5}))
	assert.NotEqual(t, base, generateCacheKey(smallCSV, schema.AnalyticsOptions{Span: schema.ChronologicalSpan}))
	assert.NotEqual(t, base, generateCacheKey(smallCSV, schema.AnalyticsOptions{Delimiter: ';'}))
	assert.NotEqual(t, base, generateCacheKey(smallCSV, schema.AnalyticsOptions{GenreSeparators: "|"}))
}

func TestMemo(t *testing.T) {
	memo := NewMemo(nil)
	opts := schema.AnalyticsOptions{}

	first := memo.Compute(smallCSV, opts)
	assert.Equal(t, 0, memo.Hits())

	// Callers get their own copy
	first.GenreDistribution["Mutated"] = 1
	second := memo.Compute(smallCSV, opts)
	assert.Equal(t, 1, memo.Hits())
	assert.NotContains(t, second.GenreDistribution, "Mutated")

	// A different input replaces the slot
	other := memo.Compute("Name\nAlien\n", opts)
	assert.Equal(t, 1, other.TotalMovies)
	memo.Compute(smallCSV, opts)
	assert.Equal(t, 1, memo.Hits())

	memo.Reset()
	memo.Compute(smallCSV, opts)
	assert.Equal(t, 1, memo.Hits())
}

func TestMemoUsesDurableCache(t *testing.T) {
	mgr, store := mockStores()
	store.On("Get", mock.Anything).Return(nil, 0, int64(0), sql.ErrNoRows).Once()
	store.On("Set", mock.Anything, mock.Anything, currentCacheVersion, mock.AnythingOfType("int64")).Return(nil).Once()

	memo := NewMemo(mgr)
	memo.Compute(smallCSV, schema.AnalyticsOptions{})
	memo.Compute(smallCSV, schema.AnalyticsOptions{})

	store.AssertNumberOfCalls(t, "Get", 1)
	store.AssertNumberOfCalls(t, "Set", 1)
}
