package middleware

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"member-portal-api/config"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware applies a fixed-window per-client limit backed by Redis.
// Without a Redis connection it is a pass-through.
func RateLimitMiddleware() gin.HandlerFunc {
	limit := 120
	if raw := os.Getenv("RATE_LIMIT_PER_MINUTE"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	return func(c *gin.Context) {
		if config.Redis == nil {
			c.Next()
			return
		}

		window := time.Now().Unix() / 60
		key := fmt.Sprintf("ratelimit:%s:%d", c.ClientIP(), window)

		count, err := config.Redis.Incr(c.Request.Context(), key).Result()
		if err != nil {
			// Redis trouble must not take the API down.
			log.Printf("rate limit check failed: %v", err)
			c.Next()
			return
		}
		if count == 1 {
			config.Redis.Expire(c.Request.Context(), key, time.Minute)
		}

		if count > int64(limit) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests, slow down",
				"code":  "RATE_LIMITED",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
