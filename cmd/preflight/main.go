// Command preflight checks that every backend the API depends on is reachable
// with the current environment before the server is started.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/xyz-asif/classifieds/internal/config"
	"github.com/xyz-asif/classifieds/internal/database"
	"github.com/xyz-asif/classifieds/internal/features/auth"
	"github.com/xyz-asif/classifieds/internal/pkg/cache"
	"github.com/xyz-asif/classifieds/internal/pkg/cloudinary"
	"github.com/xyz-asif/classifieds/internal/pkg/geofence"
	"github.com/xyz-asif/classifieds/internal/pkg/logger"
)

type check struct {
	name string
	run  func(ctx context.Context, cfg *config.Config) error
}

var checks = []check{
	{"mongodb", func(ctx context.Context, cfg *config.Config) error {
		db, err := database.Connect(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return err
		}
		return db.Disconnect(ctx)
	}},
	{"identity", func(ctx context.Context, cfg *config.Config) error {
		_, err := auth.NewVerifier(ctx, cfg)
		return err
	}},
	{"cloudinary", func(_ context.Context, cfg *config.Config) error {
		if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
			return fmt.Errorf("credentials missing")
		}
		_, err := cloudinary.NewService(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryUploadFolder)
		return err
	}},
	{"smtp", func(ctx context.Context, cfg *config.Config) error {
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(cfg.SMTPHost, cfg.SMTPPort))
		if err != nil {
			return err
		}
		return conn.Close()
	}},
	{"redis", func(_ context.Context, cfg *config.Config) error {
		if cfg.RedisAddr == "" {
			logger.Info("redis not configured, address points use the in-process cache")
			return nil
		}
		if cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB) == nil {
			return fmt.Errorf("unreachable at %s", cfg.RedisAddr)
		}
		return nil
	}},
	{"geofence", func(_ context.Context, cfg *config.Config) error {
		_, err := geofence.Load(cfg.GeofencePath)
		return err
	}},
	{"moderation", func(_ context.Context, cfg *config.Config) error {
		if cfg.AdminSecret == "" || cfg.AdminEmail == "" {
			return fmt.Errorf("ADMIN_SECRET and ADMIN_EMAIL are required")
		}
		return nil
	}},
}

func main() {
	cfg := config.Load()
	logger.Init(logger.INFO, cfg.IsProduction())
	defer logger.Sync()

	failed := 0
	for _, c := range checks {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := c.run(ctx, cfg)
		cancel()

		if err != nil {
			failed++
			logger.Error("%s: %v", c.name, err)
			continue
		}
		logger.Info("%s: ok", c.name)
	}

	if failed > 0 {
		logger.Error("%d of %d checks failed", failed, len(checks))
		os.Exit(1)
	}
	logger.Info("all systems ready")
}
