package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the whole application configuration.
// Populated from environment variables.
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	MinIO     MinIOConfig
	Generate  GenerateConfig
	Retention RetentionConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret             string
	ServiceTokenExpiry int // hours
}

type MinIOConfig struct {
	Endpoint  string // localhost:9000
	AccessKey string
	SecretKey string
	Bucket    string // photoflow
	UseSSL    bool   // false for local
}

// GenerateConfig tunes the generation pipeline.
type GenerateConfig struct {
	PreviewURLTTL   time.Duration // presigned GET lifetime for previews
	JPEGQuality     int
	RateLimitPerMin int // generate requests per caller per minute
}

// RetentionConfig tunes the worker's storage maintenance.
type RetentionConfig struct {
	PreviewMaxAge    time.Duration // unsaved preview blobs older than this are purged
	OrphanBlobMaxAge time.Duration // recordless blobs older than this are swept
}

// Load reads config from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Photoflow Derivative API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "photoflow"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			ServiceTokenExpiry: getEnvInt("JWT_SERVICE_EXPIRY", 24),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "photoflow"),
			UseSSL:    false,
		},
		Generate: GenerateConfig{
			PreviewURLTTL:   getEnvDuration("GENERATE_PREVIEW_URL_TTL", time.Hour),
			JPEGQuality:     getEnvInt("GENERATE_JPEG_QUALITY", 90),
			RateLimitPerMin: getEnvInt("GENERATE_RATE_LIMIT_PER_MIN", 30),
		},
		Retention: RetentionConfig{
			PreviewMaxAge:    getEnvDuration("RETENTION_PREVIEW_MAX_AGE", 24*time.Hour),
			OrphanBlobMaxAge: getEnvDuration("RETENTION_ORPHAN_MAX_AGE", 24*time.Hour),
		},
	}

	// Validate critical config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the config for a usable deployment.
func (c *Config) Validate() error {
	if c.App.Environment == "production" {
		if c.JWT.Secret == "your-secret-key-change-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if c.MinIO.AccessKey == "minioadmin" {
			fmt.Println("WARNING: MinIO running with default credentials")
		}
	}

	if c.Generate.JPEGQuality < 1 || c.Generate.JPEGQuality > 100 {
		return fmt.Errorf("GENERATE_JPEG_QUALITY must be in [1,100]")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
