package ratelimit

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/classifieds/internal/pkg/response"
)

// KeyFunc picks the bucket a request is counted against
type KeyFunc func(c *gin.Context) string

// CustomKeyMiddleware creates a rate limiting middleware with custom key function.
// An empty key falls back to the client IP.
func CustomKeyMiddleware(limiter *RateLimiter, keyFunc KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := ""
		if keyFunc != nil {
			key = keyFunc(c)
		}
		if key == "" {
			key = c.ClientIP()
		}

		allowed := limiter.Allow(key)
		resetTime := limiter.GetResetTime(key)

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
		c.Header("X-RateLimit-Reset", resetTime.Format(time.RFC3339))

		if !allowed {
			retry := int(time.Until(resetTime).Seconds())
			if retry < 1 {
				retry = 1
			}
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(retry))
			response.TooManyRequests(c, "Rate limit exceeded. Try again later.", "RATE_LIMITED")
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.GetRemaining(key)))
		c.Next()
	}
}
