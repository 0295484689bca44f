package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	AppEnv      string
	MongoURI    string
	MongoDB     string
	FrontendURL string
	BaseURL     string

	// Moderation
	AdminSecret        string
	AdminEmail         string
	ModerationTokenTTL time.Duration

	// Identity
	IdentityProvider           string
	FirebaseServiceAccountPath string
	GoogleClientID             string

	// Cloudinary
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string

	// SMTP
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	// Redis backs the address point cache; empty means in-memory
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	GeoCacheTTL  time.Duration
	GeoRadiusKm  float64
	GeofencePath string
	PageSize     int

	PostRateLimit    int
	ContactRateLimit int
	PostRateWindow   time.Duration
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		AppEnv:      getEnv("APP_ENV", "development"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:     getEnv("MONGO_DB", "listings_db"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080/api/v1"),

		AdminSecret:        getEnv("ADMIN_SECRET", ""),
		AdminEmail:         getEnv("ADMIN_EMAIL", ""),
		ModerationTokenTTL: getDuration("MODERATION_TOKEN_TTL", 7*24*time.Hour),

		IdentityProvider:           getEnv("IDENTITY_PROVIDER", "firebase"),
		FirebaseServiceAccountPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),
		GoogleClientID:             getEnv("GOOGLE_CLIENT_ID", ""),

		CloudinaryCloudName:    getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:       getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret:    getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryUploadFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "listings"),

		SMTPHost:     getEnv("SMTP_HOST", "127.0.0.1"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", "no-reply@localhost"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getInt("REDIS_DB", 0),

		GeoCacheTTL:  getDuration("GEO_CACHE_TTL", time.Minute),
		GeoRadiusKm:  getFloat("GEO_RADIUS_KM", 10),
		GeofencePath: getEnv("GEOFENCE_PATH", ""),
		PageSize:     getInt("PAGE_SIZE", 9),

		PostRateLimit:    getInt("POST_RATE_LIMIT", 5),
		ContactRateLimit: getInt("CONTACT_RATE_LIMIT", 20),
		PostRateWindow:   getDuration("POST_RATE_WINDOW", 15*time.Minute),
	}
}

// IsProduction reports whether the app runs in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return f
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}
