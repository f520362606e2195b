package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// AttemptLimiter is the shared-counter capability behind login/registration
// throttling. Implementations must count the attempt and report whether it is
// still within the limit for the window.
type AttemptLimiter interface {
	CheckAndRecordAttempt(ctx context.Context, key string, window time.Duration, limit int) (bool, error)
}

type RedisAttemptLimiter struct {
	Client *redis.Client
}

func NewRedisAttemptLimiter(client *redis.Client) *RedisAttemptLimiter {
	return &RedisAttemptLimiter{Client: client}
}

func (l *RedisAttemptLimiter) CheckAndRecordAttempt(ctx context.Context, key string, window time.Duration, limit int) (bool, error) {
	redisKey := "ratelimit:" + key
	count, err := l.Client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		// first attempt in the window starts the clock
		if err := l.Client.Expire(ctx, redisKey, window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(limit), nil
}

// MemoryAttemptLimiter backs the same capability with an in-process map,
// used when no redis address is configured.
type MemoryAttemptLimiter struct {
	mu      sync.Mutex
	buckets map[string]*attemptBucket
}

type attemptBucket struct {
	count   int
	resetAt time.Time
}

func NewMemoryAttemptLimiter() *MemoryAttemptLimiter {
	return &MemoryAttemptLimiter{buckets: make(map[string]*attemptBucket)}
}

func (l *MemoryAttemptLimiter) CheckAndRecordAttempt(_ context.Context, key string, window time.Duration, limit int) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	bucket, ok := l.buckets[key]
	if !ok || now.After(bucket.resetAt) {
		bucket = &attemptBucket{resetAt: now.Add(window)}
		l.buckets[key] = bucket
	}
	bucket.count++
	return bucket.count <= limit, nil
}

// RateLimit throttles a route per client IP. Limiter failures let the request
// through: an unreachable counter store should not lock everyone out.
func RateLimit(limiter AttemptLimiter, scope string, window time.Duration, limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := scope + ":" + c.ClientIP()
		allowed, err := limiter.CheckAndRecordAttempt(c.Request.Context(), key, window, limit)
		if err != nil {
			allowed = true
		}
		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many attempts, try again later"})
			c.Abort()
			return
		}
		c.Next()
	}
}
