package cache

import (
	"context"
	"sync"
	"time"

	"practice_tracker/internal/domain/model"

	"github.com/golang/groupcache/lru"
)

type memEntry struct {
	stats   model.DashboardStats
	expires time.Time
}

// MemStatsCache is an in-process LRU with a per-entry TTL. Its version is a
// single counter bumped by every invalidation, so a Set racing with any
// user's write is dropped.
type MemStatsCache struct {
	cache   *lru.Cache
	ttl     time.Duration
	now     func() time.Time
	mutex   sync.Mutex
	version uint64
}

func NewMemStatsCache(maxEntries int, ttl time.Duration) *MemStatsCache {
	return &MemStatsCache{
		cache: lru.New(maxEntries),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (m *MemStatsCache) Get(_ context.Context, userID string) (*model.DashboardStats, bool) {
	// lru.Cache.Get reorders the list, so a read lock is not enough.
	m.mutex.Lock()
	defer m.mutex.Unlock()
	v, ok := m.cache.Get(userID)
	if !ok {
		return nil, false
	}
	e := v.(memEntry)
	if !m.now().Before(e.expires) {
		m.cache.Remove(userID)
		return nil, false
	}
	stats := e.stats
	return &stats, true
}

func (m *MemStatsCache) Version(_ context.Context, _ string) uint64 {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.version
}

func (m *MemStatsCache) Set(_ context.Context, userID string, version uint64, stats model.DashboardStats) {
	if m.ttl <= 0 {
		return
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if version != m.version {
		return
	}
	m.cache.Add(userID, memEntry{stats: stats, expires: m.now().Add(m.ttl)})
}

func (m *MemStatsCache) Invalidate(_ context.Context, userID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.version++
	m.cache.Remove(userID)
}

func (m *MemStatsCache) Len() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.cache.Len()
}
