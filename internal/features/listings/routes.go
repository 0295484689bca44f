package listings

import (
	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/classifieds/internal/features/auth"
	"github.com/xyz-asif/classifieds/internal/middleware"
	"github.com/xyz-asif/classifieds/internal/pkg/token"
)

// RouteDeps are the middlewares the listings routes are guarded with
type RouteDeps struct {
	Verifier    auth.Verifier
	AdminSecret string
	PostLimit   gin.HandlerFunc
	Subscribe   gin.HandlerFunc
}

// RegisterRoutes registers the listing routes and returns the group so other
// features can mount on it
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, deps RouteDeps) *gin.RouterGroup {
	requireIdentity := auth.RequireIdentity(deps.Verifier)
	postLimit := deps.PostLimit
	if postLimit == nil {
		postLimit = func(c *gin.Context) { c.Next() }
	}

	listings := router.Group("/listings")
	{
		// Public routes
		listings.GET("", handler.ListAll)
		for _, section := range Sections {
			listings.GET("/"+section, handler.ListSection(section))
		}
		listings.GET("/id/:id", auth.OptionalIdentity(deps.Verifier), handler.GetByID)
		listings.POST("/search", handler.Search)
		listings.POST("/geolocation", handler.Geolocation)
		listings.GET("/autocomplete/:keyword", handler.Autocomplete)
		listings.GET("/tags", handler.Tags)

		// Owner routes, keyed by the listing password
		listings.POST("/deactivate", handler.Deactivate)
		listings.GET("/reactivate/:token/:id", handler.ReactivationPreview)
		listings.POST("/reactivate", handler.Reactivate)

		// Protected routes (require authentication)
		listings.POST("/"+SectionDonations, requireIdentity, postLimit, handler.Create(SectionDonations))
		listings.POST("/"+SectionSkills, requireIdentity, postLimit, handler.Create(SectionSkills))
		listings.GET("/user", requireIdentity, handler.Mine)

		// Moderator routes
		listings.GET("/check/:id", middleware.RequireModerator(deps.AdminSecret, token.ActionCheck), handler.Check)
		approve := middleware.RequireModerator(deps.AdminSecret, token.ActionApprove)
		listings.GET("/approve/:id", approve, handler.Approve)
		listings.POST("/approve/:id", approve, handler.Approve)

		if deps.Subscribe != nil {
			listings.GET("/ws", deps.Subscribe)
		}
	}

	return listings
}
