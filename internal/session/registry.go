package session

import (
	"sync"
	"time"

	"github.com/samounneang/asatec-vercel/internal/respcache"
)

// CacheRegistry owns one response cache per session and drops the caches of
// sessions that went idle.
type CacheRegistry struct {
	mu        sync.Mutex
	caches    map[string]*registryEntry
	idle      time.Duration
	now       func() time.Time
	lastSweep time.Time
}

type registryEntry struct {
	cache    *respcache.Cache
	lastSeen time.Time
}

// NewCacheRegistry returns a registry evicting caches unused for longer than idle.
func NewCacheRegistry(idle time.Duration) *CacheRegistry {
	if idle <= 0 {
		idle = defaultIdleTimeout
	}
	return &CacheRegistry{
		caches: make(map[string]*registryEntry),
		idle:   idle,
		now:    time.Now,
	}
}

// For returns the cache bound to sessionID, creating it on first use.
func (r *CacheRegistry) For(sessionID string) *respcache.Cache {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweepLocked(now)

	entry, ok := r.caches[sessionID]
	if !ok {
		entry = &registryEntry{cache: respcache.New()}
		r.caches[sessionID] = entry
	}
	entry.lastSeen = now
	return entry.cache
}

// Drop forgets the cache of sessionID.
func (r *CacheRegistry) Drop(sessionID string) {
	r.mu.Lock()
	delete(r.caches, sessionID)
	r.mu.Unlock()
}

// Len returns the number of live caches.
func (r *CacheRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.caches)
}

// sweepLocked runs at most twice per idle period.
func (r *CacheRegistry) sweepLocked(now time.Time) {
	if now.Sub(r.lastSweep) < r.idle/2 {
		return
	}
	r.lastSweep = now
	for id, entry := range r.caches {
		if now.Sub(entry.lastSeen) > r.idle {
			delete(r.caches, id)
		}
	}
}
