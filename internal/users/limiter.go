package users

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/buildbid/backend/pkg/redis"
)

// RedisLimiter shares the login budget across API instances
type RedisLimiter struct {
	limiter *redis.RateLimiter
	limit   int
	window  time.Duration
}

// NewRedisLimiter creates a sliding-window login limiter backed by Redis
func NewRedisLimiter(limiter *redis.RateLimiter, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{limiter: limiter, limit: limit, window: window}
}

// Allow consumes one attempt for key
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	allowed, _, err := l.limiter.Allow(ctx, redis.LoginRateLimit(key, l.limit, l.window))
	return allowed, err
}

// LocalLimiter is the in-process fallback when Redis is disabled
type LocalLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	every    rate.Limit
	burst    int
}

// NewLocalLimiter allows limit attempts per window per key, refilled evenly
func NewLocalLimiter(limit int, window time.Duration) *LocalLimiter {
	return &LocalLimiter{
		limiters: make(map[string]*rate.Limiter),
		every:    rate.Every(window / time.Duration(limit)),
		burst:    limit,
	}
}

// Allow consumes one attempt for key
func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(l.every, l.burst)
		l.limiters[key] = lim
	}
	l.mu.Unlock()

	return lim.Allow(), nil
}

// NewLoginLimiter picks the Redis limiter when Redis is enabled, else the local one
func NewLoginLimiter(client *redis.Client, limit int, window time.Duration) LoginLimiter {
	if client.Enabled() {
		return NewRedisLimiter(redis.NewRateLimiter(client, redis.KeyPrefix), limit, window)
	}
	return NewLocalLimiter(limit, window)
}
