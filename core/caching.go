package core

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/huangsam/reelstats/internal/contract"
	"github.com/huangsam/reelstats/schema"
)

// currentCacheVersion defines the version of the cache schema
const currentCacheVersion = 1

// cacheTTL bounds how long a stored result is trusted.
const cacheTTL = 7 * 24 * time.Hour

// cacheEntry is the stored form of a result. Records are kept beside the result
// because they are not part of its JSON form.
type cacheEntry struct {
	Result  schema.Analytics `json:"result"`
	Records []schema.Record  `json:"records"`
}

// CachedCompute returns analytics for raw, consulting the result store of mgr first.
// Failed results are returned but never stored.
func CachedCompute(raw string, opts schema.AnalyticsOptions, mgr contract.CacheManager) schema.Analytics {
	if mgr == nil {
		return ComputeWithOptions(raw, opts)
	}
	store := mgr.GetResultStore()
	if store == nil {
		// Fallback to direct computation
		return ComputeWithOptions(raw, opts)
	}

	key := generateCacheKey(raw, opts)

	// Check for cache hit
	if result := checkCacheHit(store, key); result != nil {
		return *result
	}

	// Cache miss: compute and store
	return computeAndStore(raw, opts, store, key)
}

// checkCacheHit attempts to retrieve and validate a cached result
func checkCacheHit(store contract.CacheStore, key string) *schema.Analytics {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	// Validate version and staleness
	if version == currentCacheVersion {
		entryTimestamp := time.Unix(ts, 0)
		if time.Since(entryTimestamp) <= cacheTTL {
			var entry cacheEntry
			if err := json.Unmarshal(data, &entry); err == nil {
				entry.Result.Records = entry.Records
				return &entry.Result // Cache hit
			}
		}
	}

	return nil // Cache miss (stale or version mismatch)
}

// computeAndStore computes the result and stores it in cache
func computeAndStore(raw string, opts schema.AnalyticsOptions, store contract.CacheStore, key string) schema.Analytics {
	result := ComputeWithOptions(raw, opts)
	if result.Failed() {
		return result
	}

	if data, err := json.Marshal(cacheEntry{Result: result, Records: result.Records}); err == nil {
		_ = store.Set(key, data, currentCacheVersion, time.Now().Unix())
	}

	return result
}

// generateCacheKey creates a unique key from the input text and the options that shape the result
func generateCacheKey(raw string, opts schema.AnalyticsOptions) string {
	h := sha256.New()
	_, _ = fmt.Fprintf(h, "%d:%s:%d:%q\n", opts.TopWatchDates, opts.Span, opts.Delimiter, opts.GenreSeparators)
	_, _ = h.Write([]byte(raw))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Memo keeps the most recent result in memory so repeated requests for the same
// input skip recomputation. A different input or option set replaces the slot.
type Memo struct {
	mu     sync.Mutex
	mgr    contract.CacheManager
	key    string
	result schema.Analytics
	hits   int
}

// NewMemo returns a memo that falls back to the durable cache of mgr, which may be nil.
func NewMemo(mgr contract.CacheManager) *Memo {
	return &Memo{mgr: mgr}
}

// Compute returns analytics for raw, reusing the remembered result when the input is unchanged.
// Callers receive their own copy.
func (m *Memo) Compute(raw string, opts schema.AnalyticsOptions) schema.Analytics {
	key := generateCacheKey(raw, opts)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.key != "" && m.key == key {
		m.hits++
		return m.result.Clone()
	}

	result := CachedCompute(raw, opts, m.mgr)
	m.key = key
	m.result = result
	return result.Clone()
}

// Hits returns how many requests were answered from memory.
func (m *Memo) Hits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits
}

// Reset forgets the remembered result.
func (m *Memo) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.key = ""
	m.result = schema.Analytics{}
}
