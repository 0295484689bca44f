package messages

import (
	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/classifieds/internal/features/auth"
)

// RegisterRoutes mounts the contact endpoint on the listings group. Extra
// middlewares run after authentication.
func RegisterRoutes(listings *gin.RouterGroup, handler *Handler, verifier auth.Verifier, guards ...gin.HandlerFunc) {
	chain := append([]gin.HandlerFunc{auth.RequireIdentity(verifier)}, guards...)
	listings.POST("/id/:id/contact", append(chain, handler.Contact)...)
}
