package config

import (
	"fmt"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// envConfig maps environment variables onto configuration fields.
//
// Environment variable reference:
//
//	PORT                  - listening port (default: 8080)
//	ENVIRONMENT           - development or production (default: development)
//	CORS_ORIGIN           - allowed CORS origin (default: *)
//	DATABASE_URL          - postgres connection URI; empty or "memory" keeps
//	                        the in-memory repository
//	REDIS_URL             - optional; enables cross-instance event fan-out
//	S3_ENDPOINT           - S3-compatible endpoint URL
//	S3_REGION             - region, "auto" for R2 (default: auto)
//	S3_ACCESS_KEY_ID      - access key
//	S3_SECRET_ACCESS_KEY  - secret key
//	S3_BUCKET_NAME        - bucket name
//	S3_PUBLIC_URL         - public base URL images are served from
//	S3_USE_PATH_STYLE     - path-style addressing (default: true)
//
// Setting any S3_* variable selects the S3 storage backend; the in-memory
// backend is used otherwise.
type envConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`
	CORSOrigin  string `env:"CORS_ORIGIN" env-default:"*"`
	DatabaseURL string `env:"DATABASE_URL" env-default:""`
	RedisURL    string `env:"REDIS_URL" env-default:""`

	S3Endpoint        string `env:"S3_ENDPOINT" env-default:""`
	S3Region          string `env:"S3_REGION" env-default:"auto"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID" env-default:""`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY" env-default:""`
	S3BucketName      string `env:"S3_BUCKET_NAME" env-default:""`
	S3PublicURL       string `env:"S3_PUBLIC_URL" env-default:""`
	S3UsePathStyle    bool   `env:"S3_USE_PATH_STYLE" env-default:"true"`
}

// WithEnv applies environment variable overrides
func WithEnv() Option {
	return func(c *ServerConfig) error {
		var e envConfig
		if err := cleanenv.ReadEnv(&e); err != nil {
			return fmt.Errorf("failed to read environment: %w", err)
		}

		c.Port = e.Port
		c.Environment = e.Environment
		c.CORSOrigin = e.CORSOrigin
		c.RedisURL = e.RedisURL

		if err := applyDatabaseEnv(&e, c); err != nil {
			return err
		}
		applyStorageEnv(&e, c)

		return nil
	}
}

// applyDatabaseEnv auto-detects the repository kind from DATABASE_URL
func applyDatabaseEnv(e *envConfig, c *ServerConfig) error {
	switch {
	case e.DatabaseURL == "" || e.DatabaseURL == "memory":
		c.DatabaseType = "memory"
		c.DatabaseURL = ""
	case strings.HasPrefix(e.DatabaseURL, "postgres://"),
		strings.HasPrefix(e.DatabaseURL, "postgresql://"):
		c.DatabaseType = "postgres"
		c.DatabaseURL = e.DatabaseURL
	default:
		return fmt.Errorf("unsupported DATABASE_URL format: %s (use 'memory' or 'postgresql://...')", e.DatabaseURL)
	}
	return nil
}

// applyStorageEnv selects S3 storage when any S3 variable is present, so a
// partially configured deployment fails validation instead of silently
// storing blobs in memory
func applyStorageEnv(e *envConfig, c *ServerConfig) {
	anySet := e.S3Endpoint != "" || e.S3AccessKeyID != "" || e.S3SecretAccessKey != "" ||
		e.S3BucketName != "" || e.S3PublicURL != ""
	if !anySet {
		return
	}

	c.StorageType = "s3"
	c.S3 = S3Config{
		Endpoint:        e.S3Endpoint,
		Region:          e.S3Region,
		AccessKeyID:     e.S3AccessKeyID,
		SecretAccessKey: e.S3SecretAccessKey,
		Bucket:          e.S3BucketName,
		UsePathStyle:    e.S3UsePathStyle,
	}
	c.PublicBaseURL = e.S3PublicURL
}
