package avatar

import (
	"container/list"
	"sort"
	"sync"
	"time"

	"go.uber.org/atomic"

	"avatard/internal/models"
	"avatard/internal/structures"
)

const (
	PolicyFIFO = "fifo"
	PolicyLRU  = "lru"
)

// RecordStore is a TTL-aware in-memory store of resolved avatar records,
// bounded by entry count and aggregate memory. Expiry is lazy: Get reports
// expired entries as misses, physical removal happens in Sweep/ClearExpired.
// All returned records are clones; the store exclusively owns its contents.
type RecordStore struct {
	mu         sync.RWMutex
	entries    map[string]*list.Element
	order      *list.List // front = next eviction candidate
	policy     string
	maxEntries int
	maxMemory  int
	memory     int

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64

	now func() time.Time
}

type storeEntry struct {
	identity string
	record   *models.AvatarRecord
}

func NewRecordStore(conf *structures.Config) *RecordStore {
	maxEntries := conf.Store.MaxEntries
	if maxEntries <= 0 {
		maxEntries = 10000
	}
	maxMemory := conf.Store.MaxMemoryMB * 1024 * 1024
	if maxMemory <= 0 {
		maxMemory = 100 * 1024 * 1024
	}
	policy := conf.Store.Policy
	if policy != PolicyLRU {
		policy = PolicyFIFO
	}
	return &RecordStore{
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		policy:     policy,
		maxEntries: maxEntries,
		maxMemory:  maxMemory,
		now:        time.Now,
	}
}

// Get returns a clone of the stored record, or a miss when the identity is
// absent or its record has expired.
func (s *RecordStore) Get(identity string) (*models.AvatarRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.entries[identity]
	if !ok {
		s.misses.Inc()
		return nil, false
	}

	entry := elem.Value.(*storeEntry)
	if entry.record.Expired(s.now()) {
		s.misses.Inc()
		return nil, false
	}

	if s.policy == PolicyLRU {
		s.order.MoveToBack(elem)
	}
	s.hits.Inc()
	return entry.record.Clone(), true
}

// Peek returns a clone of the stored record even when expired, without
// touching recency or hit/miss counters. Used by revalidation to compare
// content hashes against the previous fetch.
func (s *RecordStore) Peek(identity string) (*models.AvatarRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	elem, ok := s.entries[identity]
	if !ok {
		return nil, false
	}
	return elem.Value.(*storeEntry).record.Clone(), true
}

// Put inserts or replaces the record for its identity, evicting per policy
// until both bounds hold. A record that cannot fit even in an empty store is
// dropped.
func (s *RecordStore) Put(record *models.AvatarRecord) {
	if record == nil || record.Identity == "" {
		return
	}
	stored := record.Clone()
	size := stored.SizeBytes()

	s.mu.Lock()
	defer s.mu.Unlock()

	if size > s.maxMemory {
		return
	}

	if elem, ok := s.entries[stored.Identity]; ok {
		entry := elem.Value.(*storeEntry)
		s.memory -= entry.record.SizeBytes()
		entry.record = stored
		s.memory += size
		s.order.MoveToBack(elem)
		s.evictOverflow()
		return
	}

	for len(s.entries) >= s.maxEntries || s.memory+size > s.maxMemory {
		if !s.evictOldest() {
			return
		}
	}

	elem := s.order.PushBack(&storeEntry{identity: stored.Identity, record: stored})
	s.entries[stored.Identity] = elem
	s.memory += size
}

// evictOverflow restores the memory bound after an in-place replacement grew
// an existing entry.
func (s *RecordStore) evictOverflow() {
	for s.memory > s.maxMemory && s.order.Len() > 1 {
		s.evictOldest()
	}
}

func (s *RecordStore) evictOldest() bool {
	front := s.order.Front()
	if front == nil {
		return false
	}
	s.removeElement(front)
	s.evictions.Inc()
	return true
}

func (s *RecordStore) removeElement(elem *list.Element) {
	entry := elem.Value.(*storeEntry)
	s.order.Remove(elem)
	delete(s.entries, entry.identity)
	s.memory -= entry.record.SizeBytes()
}

// Delete removes one identity. Reports whether it was present.
func (s *RecordStore) Delete(identity string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.entries[identity]
	if !ok {
		return false
	}
	s.removeElement(elem)
	return true
}

// ClearExpired removes every entry whose expiry has passed and returns the
// exact count removed.
func (s *RecordStore) ClearExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for elem := s.order.Front(); elem != nil; {
		next := elem.Next()
		if elem.Value.(*storeEntry).record.Expired(now) {
			s.removeElement(elem)
			removed++
		}
		elem = next
	}
	return removed
}

// Sweep is the periodic background variant of ClearExpired.
func (s *RecordStore) Sweep() {
	s.ClearExpired()
}

// ExpiringWithin returns up to limit identities whose records expire within
// the window, soonest first. Used to pick revalidation candidates.
func (s *RecordStore) ExpiringWithin(window time.Duration, limit int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	deadline := s.now().Add(window)
	type candidate struct {
		identity  string
		expiresAt time.Time
	}
	var matched []candidate
	for elem := s.order.Front(); elem != nil; elem = elem.Next() {
		entry := elem.Value.(*storeEntry)
		if entry.record.ExpiresAt.Before(deadline) {
			matched = append(matched, candidate{entry.identity, entry.record.ExpiresAt})
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].expiresAt.Before(matched[j].expiresAt)
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	out := make([]string, len(matched))
	for i, c := range matched {
		out[i] = c.identity
	}
	return out
}

func (s *RecordStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *RecordStore) MemoryBytes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.memory
}

// Stats reports entry counts, per-source distribution, memory estimate and
// hit/miss counters.
func (s *RecordStore) Stats() models.StoreStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	stats := models.StoreStats{
		Entries:     len(s.entries),
		BySource:    make(map[string]int),
		MemoryBytes: s.memory,
		Hits:        s.hits.Load(),
		Misses:      s.misses.Load(),
		Evictions:   s.evictions.Load(),
	}
	for elem := s.order.Front(); elem != nil; elem = elem.Next() {
		entry := elem.Value.(*storeEntry)
		stats.BySource[string(entry.record.Source)]++
		if entry.record.Expired(now) {
			stats.Expired++
		}
	}
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total)
	}
	return stats
}

// SnapshotRecords returns clones of all live records for persistence.
func (s *RecordStore) SnapshotRecords() []*models.AvatarRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	out := make([]*models.AvatarRecord, 0, len(s.entries))
	for elem := s.order.Front(); elem != nil; elem = elem.Next() {
		entry := elem.Value.(*storeEntry)
		if entry.record.Expired(now) {
			continue
		}
		out = append(out, entry.record.Clone())
	}
	return out
}

// RestoreRecords reloads a persisted snapshot, dropping records that expired
// while the daemon was down.
func (s *RecordStore) RestoreRecords(records []*models.AvatarRecord) int {
	restored := 0
	now := s.now()
	for _, record := range records {
		if record == nil || record.Expired(now) {
			continue
		}
		s.Put(record)
		restored++
	}
	return restored
}
