package respcache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

type countingMeter struct {
	noop.Meter
	mu     sync.Mutex
	counts map[string]int64
}

func newCountingMeter() *countingMeter {
	return &countingMeter{counts: make(map[string]int64)}
}

func (m *countingMeter) Int64Counter(name string, _ ...metric.Int64CounterOption) (metric.Int64Counter, error) {
	return &countingCounter{meter: m, name: name}, nil
}

func (m *countingMeter) count(name string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[name]
}

type countingCounter struct {
	noop.Int64Counter
	meter *countingMeter
	name  string
}

func (c *countingCounter) Add(_ context.Context, incr int64, _ ...metric.AddOption) {
	c.meter.mu.Lock()
	defer c.meter.mu.Unlock()
	c.meter.counts[c.name] += incr
}

func TestGetOrFetchHitsSkipFetch(t *testing.T) {
	t.Parallel()

	cache := New()
	var calls atomic.Int32
	fetch := func(context.Context) ([]string, error) {
		calls.Add(1)
		return []string{"gateway", "charger"}, nil
	}

	first, err := GetOrFetch(context.Background(), cache, "products-{}", fetch)
	require.NoError(t, err)
	second, err := GetOrFetch(context.Background(), cache, "products-{}", fetch)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, int32(1), calls.Load())
	require.Equal(t, Stats{Hits: 1, Misses: 1, Entries: 1}, cache.Stats())
}

func TestHitsAndMissesAreMetered(t *testing.T) {
	t.Parallel()

	meter := newCountingMeter()
	cache := New(WithMeter(meter))
	fetch := func(context.Context) (int, error) { return 7, nil }

	for i := 0; i < 3; i++ {
		_, err := GetOrFetch(context.Background(), cache, "media-{}", fetch)
		require.NoError(t, err)
	}

	require.Equal(t, int64(2), meter.count("respcache.hits"))
	require.Equal(t, int64(1), meter.count("respcache.misses"))
	require.Equal(t, Stats{Hits: 2, Misses: 1, Entries: 1}, cache.Stats())
}

func TestClearForcesRefetch(t *testing.T) {
	t.Parallel()

	cache := New()
	var calls atomic.Int32
	fetch := func(context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}

	v, err := GetOrFetch(context.Background(), cache, "media-{}", fetch)
	require.NoError(t, err)
	require.Equal(t, 1, v)

	cache.Clear()
	require.Zero(t, cache.Len())

	v, err = GetOrFetch(context.Background(), cache, "media-{}", fetch)
	require.NoError(t, err)
	require.Equal(t, 2, v)
}

func TestFailedFetchIsNotStored(t *testing.T) {
	t.Parallel()

	cache := New()
	boom := errors.New("upstream down")

	_, err := GetOrFetch(context.Background(), cache, "cases-{}", func(context.Context) ([]int, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
	require.Zero(t, cache.Len())

	got, err := GetOrFetch(context.Background(), cache, "cases-{}", func(context.Context) ([]int, error) {
		return []int{1}, nil
	})
	require.NoError(t, err)
	require.Equal(t, []int{1}, got)
}

func TestConcurrentMissesShareOneFetch(t *testing.T) {
	t.Parallel()

	cache := New()
	release := make(chan struct{})
	var calls atomic.Int32
	fetch := func(context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "payload", nil
	}

	const workers = 8
	var started, done sync.WaitGroup
	started.Add(workers)
	done.Add(workers)
	results := make([]string, workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer done.Done()
			started.Done()
			v, err := GetOrFetch(context.Background(), cache, "products-{}", fetch)
			require.NoError(t, err)
			results[i] = v
		}(i)
	}
	started.Wait()
	close(release)
	done.Wait()

	for _, v := range results {
		require.Equal(t, "payload", v)
	}
	require.LessOrEqual(t, calls.Load(), int32(workers))
	require.Equal(t, 1, cache.Len())
}

func TestCancelledCallerDoesNotFailCoalescedCaller(t *testing.T) {
	t.Parallel()

	cache := New()
	release := make(chan struct{})
	fetchStarted := make(chan struct{})
	var fetchErr error
	fetch := func(ctx context.Context) (string, error) {
		close(fetchStarted)
		select {
		case <-release:
			return "products", nil
		case <-ctx.Done():
			fetchErr = ctx.Err()
			return "", ctx.Err()
		}
	}

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := GetOrFetch(ctxA, cache, "admin-products-{}", fetch)
		errA <- err
	}()
	<-fetchStarted

	type result struct {
		value string
		err   error
	}
	resB := make(chan result, 1)
	go func() {
		v, err := GetOrFetch(context.Background(), cache, "admin-products-{}", func(context.Context) (string, error) {
			return "", errors.New("second fetch must not run")
		})
		resB <- result{v, err}
	}()

	// Give the second caller time to join the in-flight fetch.
	time.Sleep(20 * time.Millisecond)
	cancelA()
	require.ErrorIs(t, <-errA, context.Canceled)

	close(release)
	b := <-resB
	require.NoError(t, b.err)
	require.Equal(t, "products", b.value)
	require.NoError(t, fetchErr)
	require.Equal(t, 1, cache.Len())
}

func TestClearDuringFetchDropsResult(t *testing.T) {
	t.Parallel()

	cache := New()
	_, err := GetOrFetch(context.Background(), cache, "contacts-{}", func(context.Context) (int, error) {
		cache.Clear()
		return 5, nil
	})
	require.NoError(t, err)
	require.Zero(t, cache.Len())
}

func TestNilCacheAlwaysFetches(t *testing.T) {
	t.Parallel()

	var cache *Cache
	var calls int
	for i := 0; i < 2; i++ {
		_, err := GetOrFetch(context.Background(), cache, "k", func(context.Context) (int, error) {
			calls++
			return calls, nil
		})
		require.NoError(t, err)
	}
	require.Equal(t, 2, calls)
	require.Zero(t, cache.Len())
	cache.Clear()
}

func TestKey(t *testing.T) {
	t.Parallel()

	require.Equal(t, "products-{}", Key("products", nil))
	require.Equal(t, "products-{}", Key("products", map[string]string{}))
	require.Equal(t,
		`media-{"featured":"true","type":"0"}`,
		Key("media", map[string]string{"type": "0", "featured": "true"}),
	)
}
