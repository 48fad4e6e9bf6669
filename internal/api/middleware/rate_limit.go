package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"clientflow/internal/domain"
	"clientflow/internal/services"
)

// RateLimiterBackend decides whether a request under the key is allowed.
type RateLimiterBackend interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// MemoryRateLimiter is a per-process sliding window limiter. Windows are
// swept periodically so idle keys do not accumulate.
type MemoryRateLimiter struct {
	mu      sync.Mutex
	windows map[string]*slidingWindow
	limit   int
	window  time.Duration
}

type slidingWindow struct {
	start time.Time
	count int
}

// NewMemoryRateLimiter creates an in-memory limiter allowing limit
// requests per window.
func NewMemoryRateLimiter(ctx context.Context, limit int, window time.Duration) *MemoryRateLimiter {
	rl := &MemoryRateLimiter{
		windows: make(map[string]*slidingWindow),
		limit:   limit,
		window:  window,
	}
	go rl.sweep(ctx)
	return rl
}

// Allow reports whether a request under the key fits the window.
func (rl *MemoryRateLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows[key]
	if !ok || now.Sub(w.start) > rl.window {
		rl.windows[key] = &slidingWindow{start: now, count: 1}
		return true, nil
	}
	w.count++
	return w.count <= rl.limit, nil
}

func (rl *MemoryRateLimiter) sweep(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-time.Hour)
			rl.mu.Lock()
			for key, w := range rl.windows {
				if w.start.Before(cutoff) {
					delete(rl.windows, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// RedisRateLimiter is a distributed sliding-window limiter over a Redis
// sorted set per key, for deployments with more than one replica.
type RedisRateLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
}

// NewRedisRateLimiter creates a Redis-backed limiter.
func NewRedisRateLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, prefix: prefix, limit: limit, window: window}
}

// Allow counts requests in the trailing window and admits the request
// while the count stays under the limit.
func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := rl.prefix + ":" + key
	now := time.Now()
	windowStart := now.Add(-rl.window)

	pipe := rl.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	countCmd := pipe.ZCard(ctx, redisKey)
	pipe.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: now.UnixNano(),
	})
	pipe.Expire(ctx, redisKey, rl.window+time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	count, err := countCmd.Result()
	if err != nil {
		return false, err
	}
	return count < int64(rl.limit), nil
}

// RateLimit enforces the backend's verdict per client key. Backend errors
// fail open: resilience of the primary operation beats strict limiting.
// Rejections are recorded as rate_limit_exceeded security events.
func RateLimit(backend RateLimiterBackend, security *services.SecurityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := clientKey(c)

		allowed, err := backend.Allow(c.Request.Context(), key)
		if err != nil {
			c.Header("X-RateLimit-Error", "true")
			c.Next()
			return
		}
		if !allowed {
			if security != nil {
				security.LogEvent(c.Request.Context(), domain.EventRateLimitExceeded, services.EventData{
					Resource:  c.FullPath(),
					Action:    c.Request.Method,
					ClientIP:  c.ClientIP(),
					UserAgent: c.Request.UserAgent(),
				})
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error": gin.H{
					"type":    string(domain.RateLimitError),
					"code":    "TOO_MANY_REQUESTS",
					"message": "Rate limit exceeded. Please try again later.",
				},
			})
			return
		}
		c.Next()
	}
}

// clientKey prefers the authenticated user over the caller's IP.
func clientKey(c *gin.Context) string {
	if session, ok := GetSession(c); ok && session.UserID != "" {
		return "user:" + session.UserID
	}
	return "ip:" + c.ClientIP()
}
