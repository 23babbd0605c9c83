package leads

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/cruderly/wallie/pkg/errors"
)

// Limiter decides whether a client may submit another lead.
type Limiter interface {
	// Allow consumes one submission for key (usually the client IP).
	// It returns nil or an *errors.RateLimitedError.
	Allow(ctx context.Context, key string) error
}

// NopLimiter allows everything.
type NopLimiter struct{}

func (NopLimiter) Allow(context.Context, string) error { return nil }

// LocalLimiter is a per-key token bucket kept in process memory.
// Each key may burst up to Burst submissions and then refills at Per.
type LocalLimiter struct {
	limit rate.Limit
	burst int
	idle  time.Duration
	now   func() time.Time

	mu        sync.Mutex
	buckets   map[string]*bucket
	nextSweep time.Time
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// NewLocalLimiter allows burst submissions per key and one more every per.
func NewLocalLimiter(burst int, per time.Duration) *LocalLimiter {
	return &LocalLimiter{
		limit:   rate.Every(per),
		burst:   max(burst, 1),
		idle:    max(per*time.Duration(max(burst, 1)), time.Minute),
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

func (l *LocalLimiter) Allow(_ context.Context, key string) error {
	now := l.now()

	l.mu.Lock()
	l.sweep(now)
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.seen = now
	res := b.lim.ReserveN(now, 1)
	l.mu.Unlock()

	delay := res.DelayFrom(now)
	if delay == 0 {
		return nil
	}
	res.CancelAt(now)
	return &errors.RateLimitedError{RetryAfter: ceilSeconds(delay)}
}

// sweep drops buckets idle long enough to have refilled completely. It
// scans at most once per idle period. Callers hold l.mu.
func (l *LocalLimiter) sweep(now time.Time) {
	if now.Before(l.nextSweep) {
		return
	}
	l.nextSweep = now.Add(l.idle)
	for k, b := range l.buckets {
		if now.Sub(b.seen) > l.idle {
			delete(l.buckets, k)
		}
	}
}

// Len returns the number of tracked keys.
func (l *LocalLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// RedisLimiter is a fixed-window counter shared by every instance through
// Redis: INCR on a per-window key, EXPIRE when the window opens.
type RedisLimiter struct {
	client redis.UniversalClient
	prefix string
	limit  int64
	window time.Duration
	now    func() time.Time
}

// NewRedisLimiter allows limit submissions per key in each window.
func NewRedisLimiter(client redis.UniversalClient, prefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		prefix: prefix,
		limit:  int64(max(limit, 1)),
		window: max(window, time.Second),
		now:    time.Now,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) error {
	now := l.now()
	slot := now.UnixNano() / int64(l.window)
	rkey := fmt.Sprintf("%sratelimit:%s:%d", l.prefix, key, slot)

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, rkey)
		p.ExpireNX(ctx, rkey, l.window)
		return nil
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "rate limit")
	}
	if incr.Val() <= l.limit {
		return nil
	}
	windowEnd := time.Unix(0, (slot+1)*int64(l.window))
	return &errors.RateLimitedError{RetryAfter: ceilSeconds(windowEnd.Sub(now))}
}

func ceilSeconds(d time.Duration) int {
	return max(int(math.Ceil(d.Seconds())), 1)
}
