// ================== cmd/api/main.go ==================
//
// @title Classifieds API
// @version 1.0
// @description Donations, skills and blog listings with moderated publishing
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer <token>"
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xyz-asif/classifieds/internal/config"
	"github.com/xyz-asif/classifieds/internal/database"
	"github.com/xyz-asif/classifieds/internal/middleware"
	"github.com/xyz-asif/classifieds/internal/pkg/logger"
	"github.com/xyz-asif/classifieds/internal/pkg/metrics"
	"github.com/xyz-asif/classifieds/internal/pkg/response"
	"github.com/xyz-asif/classifieds/internal/routes"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	docs "github.com/xyz-asif/classifieds/docs"
)

func main() {
	// Load config
	cfg := config.Load()

	level := logger.DEBUG
	if cfg.IsProduction() {
		level = logger.INFO
	}
	logger.Init(level, cfg.IsProduction())
	defer logger.Sync()

	// Configure Swagger metadata at runtime
	docs.SwaggerInfo.Title = "Classifieds API"
	docs.SwaggerInfo.Description = "Donations, skills and blog listings with moderated publishing"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = "localhost:" + cfg.Port
	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Schemes = []string{"http"}

	// Connect to MongoDB
	db, err := database.Connect(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB: %v", err)
	}
	defer db.Disconnect(context.Background())

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger.L()))
	router.Use(middleware.CORS(cfg.FrontendURL))
	router.Use(metrics.Middleware())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			response.ServiceUnavailable(c, "Database unreachable", "DB_UNAVAILABLE")
			return
		}
		response.Success(c, map[string]interface{}{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})
	router.GET("/metrics", metrics.Handler())

	// Swagger documentation (modern UI configs)
	router.GET(
		"/swagger/*any",
		ginSwagger.WrapHandler(
			swaggerFiles.Handler,
			ginSwagger.URL("/swagger/doc.json"),
			ginSwagger.DeepLinking(true),
			ginSwagger.DefaultModelsExpandDepth(-1),
			ginSwagger.DocExpansion("none"),
			ginSwagger.PersistAuthorization(true),
		),
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Register all routes
	if err := routes.SetupRoutes(ctx, router, db.Database, cfg); err != nil {
		logger.Fatal("Failed to set up routes: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting on port %s", cfg.Port)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
