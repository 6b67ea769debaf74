package middleware

import (
	"net/http"
	"strconv"
	"time"

	"hebeos_todo/internal/db"

	"github.com/gin-gonic/gin"
)

// RedisRateLimit implements a fixed-window per-IP rate limiter using Redis
// INCR/EXPIRE. When the backend cannot be reached the middleware fails open
// so the API stays available.
// key format: rl:<window_seconds>:<identifier>
func RedisRateLimit(manager *db.Manager, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if manager == nil || maxRequests <= 0 {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		client, release, err := manager.Acquire(ctx)
		if err != nil {
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}
		defer release()

		ident := c.ClientIP()
		key := "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + ident

		val, err := client.Incr(ctx, key).Result()
		if err != nil {
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}

		if val == 1 {
			// first hit in this window
			client.Expire(ctx, key, window)
		}

		if val > int64(maxRequests) {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}
