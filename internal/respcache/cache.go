// Package respcache memoises API payloads per session, keyed by request signature.
package respcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/singleflight"
)

const (
	meterName = "github.com/samounneang/asatec-vercel/internal/respcache"

	// sharedFetchTimeout bounds a coalesced fetch once it no longer follows
	// any single caller's cancellation.
	sharedFetchTimeout = 30 * time.Second
)

// ErrTypeMismatch is returned when a coalesced fetch produced a payload of
// another type than the caller asked for.
var ErrTypeMismatch = errors.New("respcache: cached payload has unexpected type")

// Entry is a stored payload.
type Entry struct {
	Key      string
	Value    any
	StoredAt time.Time
}

// Stats reports cache effectiveness.
type Stats struct {
	Hits    uint64
	Misses  uint64
	Entries int
}

// Cache maps request signatures to the last successfully fetched payload.
// Entries live until Clear; there is no TTL or size bound.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]Entry
	generation uint64
	group      singleflight.Group
	now        func() time.Time

	hits   atomic.Uint64
	misses atomic.Uint64

	hitCounter  metric.Int64Counter
	missCounter metric.Int64Counter
}

// Option customises a Cache.
type Option func(*options)

type options struct {
	meter metric.Meter
}

// WithMeter records hit and miss counts on meter instead of the global
// meter provider.
func WithMeter(m metric.Meter) Option {
	return func(o *options) {
		o.meter = m
	}
}

// New returns an empty cache.
func New(opts ...Option) *Cache {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}
	meter := cfg.meter
	if meter == nil {
		meter = otel.GetMeterProvider().Meter(meterName)
	}

	c := &Cache{
		entries: make(map[string]Entry),
		now:     time.Now,
	}
	if counter, err := meter.Int64Counter("respcache.hits",
		metric.WithDescription("Cached API payloads served without a fetch"),
	); err == nil {
		c.hitCounter = counter
	}
	if counter, err := meter.Int64Counter("respcache.misses",
		metric.WithDescription("Cache lookups that required an API fetch"),
	); err == nil {
		c.missCounter = counter
	}
	return c
}

// GetOrFetch returns the cached payload for key or calls fetch and stores its
// result. Failed fetches are never stored. Concurrent misses for the same key
// share one fetch; the shared fetch outlives a caller that gives up, and every
// caller stops waiting when its own ctx is done. A nil cache always fetches.
func GetOrFetch[T any](ctx context.Context, c *Cache, key string, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	if c == nil {
		return fetch(ctx)
	}

	if value, ok := c.lookup(key); ok {
		if typed, ok := value.(T); ok {
			c.recordHit(ctx)
			return typed, nil
		}
	}
	c.recordMiss(ctx)

	generation := c.currentGeneration()
	results := c.group.DoChan(key, func() (any, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()
		fetched, err := fetch(shared)
		if err != nil {
			return nil, err
		}
		c.store(key, fetched, generation)
		return fetched, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-results:
		if res.Err != nil {
			return zero, res.Err
		}
		typed, ok := res.Val.(T)
		if !ok {
			return zero, fmt.Errorf("%w: key %q", ErrTypeMismatch, key)
		}
		return typed, nil
	}
}

// Clear drops every entry. Fetches already in flight do not repopulate it.
func (c *Cache) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]Entry)
	c.generation++
	c.mu.Unlock()
}

// Len returns the number of stored entries.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns this cache's hit and miss counts. The same events are
// exported as the respcache.hits and respcache.misses metrics.
func (c *Cache) Stats() Stats {
	if c == nil {
		return Stats{}
	}
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: c.Len(),
	}
}

func (c *Cache) recordHit(ctx context.Context) {
	c.hits.Add(1)
	if c.hitCounter != nil {
		c.hitCounter.Add(ctx, 1)
	}
}

func (c *Cache) recordMiss(ctx context.Context) {
	c.misses.Add(1)
	if c.missCounter != nil {
		c.missCounter.Add(ctx, 1)
	}
}

func (c *Cache) lookup(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return entry.Value, true
}

func (c *Cache) currentGeneration() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

func (c *Cache) store(key string, value any, generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.generation {
		return
	}
	c.entries[key] = Entry{Key: key, Value: value, StoredAt: c.now()}
}

// Key builds the request signature "<kind>-<json filters>". Filters are
// serialised with sorted keys, so an empty set yields "<kind>-{}".
func Key(kind string, filters map[string]string) string {
	if len(filters) == 0 {
		return kind + "-{}"
	}
	encoded, err := json.Marshal(filters)
	if err != nil {
		return kind + "-{}"
	}
	return kind + "-" + string(encoded)
}
