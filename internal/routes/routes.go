package routes

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/classifieds/internal/config"
	"github.com/xyz-asif/classifieds/internal/features/auth"
	"github.com/xyz-asif/classifieds/internal/features/listings"
	"github.com/xyz-asif/classifieds/internal/features/messages"
	"github.com/xyz-asif/classifieds/internal/pkg/broadcast"
	"github.com/xyz-asif/classifieds/internal/pkg/cache"
	"github.com/xyz-asif/classifieds/internal/pkg/cloudinary"
	"github.com/xyz-asif/classifieds/internal/pkg/geofence"
	"github.com/xyz-asif/classifieds/internal/pkg/logger"
	"github.com/xyz-asif/classifieds/internal/pkg/mailer"
	"github.com/xyz-asif/classifieds/internal/pkg/ratelimit"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupRoutes builds every feature service and mounts the API. Background
// workers it starts stop when ctx is cancelled.
func SetupRoutes(ctx context.Context, router *gin.Engine, db *mongo.Database, cfg *config.Config) error {
	// API v1 group
	api := router.Group("/api/v1")

	cld, err := cloudinary.NewService(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryUploadFolder)
	if err != nil {
		return fmt.Errorf("cloudinary: %w", err)
	}

	fence, err := geofence.Load(cfg.GeofencePath)
	if err != nil {
		return err
	}

	verifier, err := auth.NewVerifier(ctx, cfg)
	if err != nil {
		return fmt.Errorf("identity verifier: %w", err)
	}

	mail := mailer.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)

	// Address points are cached in Redis when reachable, in process otherwise
	var points cache.Store = cache.NewMemoryStore()
	if client := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); client != nil {
		points = cache.NewRedisStore(client, "classifieds:")
		logger.Info("address points cached in redis at %s", cfg.RedisAddr)
	}

	hub := broadcast.NewHub(cfg.FrontendURL)

	listingService := listings.NewService(listings.NewRepository(db), cld, mail, points, hub, fence, listings.Settings{
		BaseURL:            cfg.BaseURL,
		AdminEmail:         cfg.AdminEmail,
		AdminSecret:        cfg.AdminSecret,
		ModerationTokenTTL: cfg.ModerationTokenTTL,
		GeoRadiusKm:        cfg.GeoRadiusKm,
		GeoCacheTTL:        cfg.GeoCacheTTL,
		PageSize:           cfg.PageSize,
	})
	messageService := messages.NewService(messages.NewRepository(db), listingService, mail, cfg.BaseURL)

	// Posting and contacting are limited per signed in email
	postLimiter := ratelimit.New(cfg.PostRateLimit, cfg.PostRateWindow)
	postLimiter.StartCleanup(ctx, cfg.PostRateWindow)
	contactLimiter := ratelimit.New(cfg.ContactRateLimit, cfg.PostRateWindow)
	contactLimiter.StartCleanup(ctx, cfg.PostRateWindow)

	// Register feature routes
	group := listings.RegisterRoutes(api, listings.NewHandler(listingService, messageService), listings.RouteDeps{
		Verifier:    verifier,
		AdminSecret: cfg.AdminSecret,
		PostLimit:   ratelimit.CustomKeyMiddleware(postLimiter, auth.EmailKey),
		Subscribe:   hub.ServeWS,
	})
	messages.RegisterRoutes(group, messages.NewHandler(messageService), verifier,
		ratelimit.CustomKeyMiddleware(contactLimiter, auth.EmailKey))

	return nil
}
