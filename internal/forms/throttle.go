package forms

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const throttleIdle = 10 * time.Minute

// Throttle rate limits submissions per client key, usually the remote IP.
type Throttle struct {
	limit rate.Limit
	burst int
	now   func() time.Time

	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewThrottle allows perMinute submissions per key with the given burst.
func NewThrottle(perMinute, burst int) *Throttle {
	return &Throttle{
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    burst,
		now:      time.Now,
		visitors: make(map[string]*visitor),
	}
}

// Allow reports whether key may submit now and consumes a token if so.
func (t *Throttle) Allow(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.sweepLocked(now)

	v, ok := t.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(t.limit, t.burst)}
		t.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// Len reports how many keys are tracked.
func (t *Throttle) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.visitors)
}

func (t *Throttle) sweepLocked(now time.Time) {
	if now.Sub(t.lastSweep) < throttleIdle/2 {
		return
	}
	t.lastSweep = now
	for key, v := range t.visitors {
		if now.Sub(v.lastSeen) > throttleIdle {
			delete(t.visitors, key)
		}
	}
}
