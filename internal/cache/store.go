// Package cache implements the in-memory store for fetched record pages.
//
// Entries are keyed by the canonical serialization of a fetch request,
// carry a TTL, and are evicted oldest-first (insertion order) when the
// store is full. Expired entries are purged lazily on read and swept
// periodically in the background. The store is injectable: construct one
// per service or per test, never share ambient global state.
package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/revlens/revlens/internal/core/domain"
	"github.com/revlens/revlens/internal/metrics"
)

const (
	// DefaultTTL is applied when Set is called without an explicit TTL.
	DefaultTTL = 5 * time.Minute

	// DefaultCapacity bounds the entry count.
	DefaultCapacity = 100

	// DefaultSweepInterval is how often the background sweep runs.
	DefaultSweepInterval = 10 * time.Minute
)

// Entry is a cached record page. Callers always receive a copy; the
// store's internal slices are never exposed by reference.
type Entry struct {
	Data       []domain.RevenueRecord
	Pagination domain.Pagination
	Timestamp  time.Time
	TTL        time.Duration
}

// Stats holds observability counters. Hits and Misses are monotonically
// increasing, reset only by process restart.
type Stats struct {
	Size      int    `json:"size"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
}

// Store is the in-memory cache. All access goes through Get/Set/
// Invalidate/Clear; no other component touches entries directly.
type Store struct {
	mu       sync.Mutex
	entries  map[string]*Entry
	order    []string // insertion order, oldest first
	capacity int
	ttl      time.Duration

	hits      uint64
	misses    uint64
	evictions uint64

	now func() time.Time
}

// New creates a store with the given capacity and default TTL. Zero
// values fall back to the package defaults.
func New(capacity int, defaultTTL time.Duration) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Store{
		entries:  make(map[string]*Entry),
		capacity: capacity,
		ttl:      defaultTTL,
		now:      time.Now,
	}
}

// Get returns a copy of the entry for key. Entries past their TTL are
// treated as absent and purged. Every call counts as a hit or a miss.
func (s *Store) Get(key string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if ok && s.now().Sub(entry.Timestamp) >= entry.TTL {
		s.removeLocked(key)
		ok = false
	}
	if !ok {
		s.misses++
		metrics.CacheMisses.Inc()
		return Entry{}, false
	}

	s.hits++
	metrics.CacheHits.Inc()
	return Entry{
		Data:       domain.CloneRecords(entry.Data),
		Pagination: entry.Pagination,
		Timestamp:  entry.Timestamp,
		TTL:        entry.TTL,
	}, true
}

// Set stores or overwrites an entry. A TTL <= 0 uses the default. If the
// store is at capacity and key is new, the single oldest entry is evicted
// first. Overwriting an existing key keeps its insertion position.
func (s *Store) Set(key string, data []domain.RevenueRecord, pagination domain.Pagination, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.ttl
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists {
		if len(s.entries) >= s.capacity && len(s.order) > 0 {
			oldest := s.order[0]
			s.removeLocked(oldest)
			s.evictions++
			metrics.CacheEvictions.Inc()
		}
		s.order = append(s.order, key)
	}

	s.entries[key] = &Entry{
		Data:       domain.CloneRecords(data),
		Pagination: pagination,
		Timestamp:  s.now(),
		TTL:        ttl,
	}
}

// Invalidate removes one entry. No-op if absent.
func (s *Store) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(key)
}

// Clear removes all entries. Counters are kept.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*Entry)
	s.order = s.order[:0]
}

// Stats returns current counters.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Size:      len(s.entries),
		Hits:      s.hits,
		Misses:    s.misses,
		Evictions: s.evictions,
	}
}

// StartSweeper runs the periodic expiry sweep until ctx is cancelled.
// Blocks; run it in a goroutine.
func (s *Store) StartSweeper(ctx context.Context, interval time.Duration) {
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
			s.Sweep()
		}
	}
}

// Sweep removes all expired entries. A failure while sweeping must not
// take the process down; it is logged and the sweep moves on.
func (s *Store) Sweep() {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("cache sweep panicked", "panic", r)
		}
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, entry := range s.entries {
		if now.Sub(entry.Timestamp) >= entry.TTL {
			s.removeLocked(key)
			removed++
		}
	}

	if removed > 0 {
		metrics.SweepRemoved.Add(float64(removed))
		slog.Debug("cache sweep completed", "removed", removed, "size", len(s.entries))
	}
}

// removeLocked deletes key from the map and the insertion-order list.
// Caller holds s.mu.
func (s *Store) removeLocked(key string) {
	if _, ok := s.entries[key]; !ok {
		return
	}
	delete(s.entries, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}
