package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/classifieds/internal/pkg/response"
	"github.com/xyz-asif/classifieds/internal/pkg/token"
)

// RequireModerator admits either the shared admin secret as a bearer token or
// a signed moderation link token bound to the :id route param and action.
func RequireModerator(secret, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			response.ServiceUnavailable(c, "Moderation is not configured")
			c.Abort()
			return
		}

		if bearer := bearerToken(c.GetHeader("Authorization")); bearer != "" {
			if subtle.ConstantTimeCompare([]byte(bearer), []byte(secret)) == 1 {
				c.Set("moderator", "admin")
				c.Next()
				return
			}
			response.AuthenticationError(c, "Invalid admin credentials")
			c.Abort()
			return
		}

		linkToken := c.Query("token")
		if linkToken == "" {
			response.Unauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		claims, err := token.ParseModerationToken(linkToken, secret)
		if err != nil {
			response.AuthenticationError(c, "Invalid or expired moderation link")
			c.Abort()
			return
		}
		if !claims.Allows(c.Param("id"), action) {
			response.AuthorizationError(c, "Moderation link does not cover this action")
			c.Abort()
			return
		}

		c.Set("moderator", "link")
		c.Next()
	}
}

// bearerToken supports both "Bearer <token>" (case-insensitive) and a raw token
func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	fields := strings.Fields(header)
	if len(fields) == 2 && strings.EqualFold(fields[0], "Bearer") {
		return fields[1]
	}
	return header
}
