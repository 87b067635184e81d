package config

import (
	"log/slog"
	"os"
	"time"
)

// Storage driver names accepted in STORAGE_DRIVER.
const (
	StorageLocal      = "local"
	StorageS3         = "s3"
	StorageCloudinary = "cloudinary"
)

type Config struct {
	Port        string
	Env         string
	DatabaseDSN string

	JWTSecret     string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration

	StorageDriver string

	// Local driver
	MediaRoot string
	MediaURL  string

	// S3 / MinIO driver
	S3Region       string
	S3Bucket       string
	S3AccessKey    string
	S3SecretKey    string
	S3BaseEndpoint string

	// Cloudinary driver
	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string
}

func Load() Config {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		DatabaseDSN: getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/picstash?parseTime=true"),

		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		AccessExpiry:  getEnvDuration("ACCESS_TOKEN_EXPIRY", 15*time.Minute),
		RefreshExpiry: getEnvDuration("REFRESH_TOKEN_EXPIRY", 168*time.Hour),

		StorageDriver: getEnv("STORAGE_DRIVER", StorageLocal),

		MediaRoot: getEnv("MEDIA_ROOT", "media"),
		MediaURL:  getEnv("MEDIA_URL", "/media"),

		S3Region:       getEnv("S3_REGION", "us-east-1"),
		S3Bucket:       getEnv("S3_BUCKET", ""),
		S3AccessKey:    getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:    getEnv("S3_SECRET_KEY", ""),
		S3BaseEndpoint: getEnv("S3_BASE_ENDPOINT", ""),

		CloudinaryName:      getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryFolder:    getEnv("CLOUDINARY_FOLDER", "picstash"),
	}

	if cfg.Env == "production" && cfg.JWTSecret == "dev-secret-change-in-production" {
		slog.Error("JWT_SECRET must be set in production environment")
		os.Exit(1)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}
