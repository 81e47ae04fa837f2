package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/verification/models"
	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/pkg/platform/sentinel"
)

// DefaultSweepInterval is how often the background sweep removes expired
// entries that no read has touched.
const DefaultSweepInterval = 5 * time.Minute

type memoryEntry struct {
	result   *models.VerificationResult
	storedAt time.Time
}

// Memory is the process-local cache backend. TTL is enforced lazily on Get
// and eagerly by Sweep; the size bound evicts the entry with the oldest
// storedAt (insertion order, not access order).
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	maxSize int

	hits   atomic.Uint64
	misses atomic.Uint64

	// now is swappable for TTL tests.
	now func() time.Time
}

// NewMemory creates a memory cache. maxSize <= 0 means unbounded.
func NewMemory(ttl time.Duration, maxSize int) *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
	}
}

// Get returns the cached result for key, or sentinel.ErrNotFound. An entry
// found past its TTL is deleted and counted as a miss.
func (m *Memory) Get(_ context.Context, key string) (*models.VerificationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		m.misses.Add(1)
		return nil, sentinel.ErrNotFound
	}
	if m.now().Sub(entry.storedAt) > m.ttl {
		delete(m.entries, key)
		m.misses.Add(1)
		return nil, sentinel.ErrNotFound
	}
	m.hits.Add(1)
	return entry.result, nil
}

// Set stores a result. When the cache is full, the oldest entry by storedAt
// is evicted first.
func (m *Memory) Set(_ context.Context, key string, result *models.VerificationResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[key]; !exists && m.maxSize > 0 && len(m.entries) >= m.maxSize {
		m.evictOldestLocked()
	}
	m.entries[key] = memoryEntry{result: result, storedAt: m.now()}
	return nil
}

// Delete removes a key, reporting whether it was present.
func (m *Memory) Delete(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.entries[key]
	delete(m.entries, key)
	return ok, nil
}

// Clear drops every entry. Stats counters are preserved.
func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]memoryEntry)
	return nil
}

// Stats reports hit/miss counters and current size.
func (m *Memory) Stats() Stats {
	m.mu.Lock()
	size := len(m.entries)
	m.mu.Unlock()

	hits, misses := m.hits.Load(), m.misses.Load()
	return Stats{Hits: hits, Misses: misses, Size: size, HitRate: hitRate(hits, misses)}
}

// Sweep removes every expired entry. Called periodically by Run so entries
// nobody reads do not linger for the full process lifetime.
func (m *Memory) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for key, entry := range m.entries {
		if now.Sub(entry.storedAt) > m.ttl {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}

// Run sweeps expired entries on the given interval until ctx is done.
// interval <= 0 uses DefaultSweepInterval.
func (m *Memory) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// evictOldestLocked removes the entry with the smallest storedAt.
// Must be called while holding m.mu.
func (m *Memory) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	for key, entry := range m.entries {
		if oldestKey == "" || entry.storedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.storedAt
		}
	}
	if oldestKey != "" {
		delete(m.entries, oldestKey)
	}
}
