package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	HTTPAddr        string
	MongoURI        string
	MongoDatabase   string
	RedisAddr       string
	ShutdownTimeout time.Duration
	UploadDir       string
	UploadPrefix    string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	MinioURLHost   string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
}

// FromEnv builds Config with defaults, overridden by environment variables.
func FromEnv() Config {
	return Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		MongoURI:        envOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   envOrDefault("MONGO_DATABASE", "waves"),
		RedisAddr:       envOrDefault("REDIS_ADDR", ""),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
		UploadDir:       envOrDefault("UPLOAD_DIR", "uploads"),
		UploadPrefix:    envOrDefault("UPLOAD_PREFIX", "waves"),

		MinioEndpoint:  envOrDefault("MINIO_ENDPOINT", ""),
		MinioAccessKey: envOrDefault("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: envOrDefault("MINIO_SECRET_KEY", ""),
		MinioBucket:    envOrDefault("MINIO_BUCKET", "product-images"),
		MinioUseSSL:    envBool("MINIO_USE_SSL", false),
		MinioURLHost:   envOrDefault("MINIO_URL_HOST", ""),

		SMTPHost:     envOrDefault("SMTP_HOST", ""),
		SMTPPort:     envInt("SMTP_PORT", 587),
		SMTPUser:     envOrDefault("SMTP_USER", ""),
		SMTPPassword: envOrDefault("SMTP_PASSWORD", ""),
		MailFrom:     envOrDefault("MAIL_FROM", "no-reply@waves.example"),
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		seconds, err := strconv.Atoi(v)
		if err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}
