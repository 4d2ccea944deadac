package grpc

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// maxLimiters bounds the per-key map. When full, only limiters that
	// are back to a full bucket are evicted; a new key is refused while
	// every tracked key still owes tokens.
	maxLimiters = 10000

	limiterIdleTTL       = 10 * time.Minute
	limiterSweepInterval = 5 * time.Minute
)

type keyLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type limiterSet struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	max      int
	now      func() time.Time
	limiters map[string]*keyLimiter
}

func newLimiterSet(l RateLimit) *limiterSet {
	perMinute := l.PerMinute
	if perMinute <= 0 {
		perMinute = 10
	}
	burst := l.Burst
	if burst <= 0 {
		burst = 1
	}
	return &limiterSet{
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    burst,
		max:      maxLimiters,
		now:      time.Now,
		limiters: make(map[string]*keyLimiter),
	}
}

// Allow reports whether one more request for key fits its budget.
func (l *limiterSet) Allow(key string) bool {
	l.mu.Lock()
	now := l.now()
	kl, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) >= l.max {
			l.sweep(now, true)
		}
		if len(l.limiters) >= l.max {
			l.mu.Unlock()
			return false
		}
		kl = &keyLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = kl
	}
	kl.lastSeen = now
	l.mu.Unlock()
	return kl.limiter.AllowN(now, 1)
}

// Sweep drops limiters idle for longer than limiterIdleTTL.
func (l *limiterSet) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweep(l.now(), false)
}

// Run sweeps idle limiters periodically until ctx is done.
func (l *limiterSet) Run(ctx context.Context) {
	ticker := time.NewTicker(limiterSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}

// sweep drops idle limiters and, when refilled is set, every limiter whose
// bucket is full again. Caller holds mu.
func (l *limiterSet) sweep(now time.Time, refilled bool) {
	for k, kl := range l.limiters {
		if now.Sub(kl.lastSeen) > limiterIdleTTL ||
			refilled && kl.limiter.TokensAt(now) >= float64(l.burst) {
			delete(l.limiters, k)
		}
	}
}
