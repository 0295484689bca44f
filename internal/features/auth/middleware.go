package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/classifieds/internal/pkg/logger"
	"github.com/xyz-asif/classifieds/internal/pkg/response"
)

// RequireIdentity rejects requests without a valid bearer ID token
func RequireIdentity(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header required", "AUTH_REQUIRED")
			c.Abort()
			return
		}

		raw, ok := parseBearer(authHeader)
		if !ok {
			response.Unauthorized(c, "Invalid authorization format", "INVALID_AUTH_FORMAT")
			c.Abort()
			return
		}

		id, err := v.Verify(c.Request.Context(), raw)
		if err != nil {
			logger.Debug("identity verification failed: %v", err)
			response.Unauthorized(c, "Invalid or expired token", "INVALID_TOKEN")
			c.Abort()
			return
		}

		setIdentity(c, id)
		c.Next()
	}
}

// OptionalIdentity attaches the identity when a valid token is present and
// lets anonymous requests through otherwise
func OptionalIdentity(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, ok := parseBearer(c.GetHeader("Authorization")); ok {
			if id, err := v.Verify(c.Request.Context(), raw); err == nil {
				setIdentity(c, id)
			}
		}
		c.Next()
	}
}

// FromContext returns the identity set by the middleware, if any
func FromContext(c *gin.Context) (*Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(*Identity)
	return id, ok
}

// EmailKey buckets per-user middleware such as the post rate limiter
func EmailKey(c *gin.Context) string {
	return c.GetString(emailKey)
}

func setIdentity(c *gin.Context, id *Identity) {
	c.Set(identityKey, id)
	c.Set(emailKey, id.Email)
}

func parseBearer(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
