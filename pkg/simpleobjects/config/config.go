// Package config assembles server configuration from the environment and
// builds the repository, storage, and notifier components from it.
package config

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/tendant/simple-objects/pkg/simpleobjects"
	"github.com/tendant/simple-objects/pkg/simpleobjects/imagestore"
	memoryrepo "github.com/tendant/simple-objects/pkg/simpleobjects/repo/memory"
	postgresrepo "github.com/tendant/simple-objects/pkg/simpleobjects/repo/postgres"
	memorystorage "github.com/tendant/simple-objects/pkg/simpleobjects/storage/memory"
	s3storage "github.com/tendant/simple-objects/pkg/simpleobjects/storage/s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of
// defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:          "8080",
		Environment:   "development",
		CORSOrigin:    "*",
		DatabaseType:  "memory",
		StorageType:   "memory",
		PublicBaseURL: "memory://blobs",
	}
}

// ServerConfig represents server configuration for the simple-objects service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing
	CORSOrigin  string

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"

	// Storage configuration
	StorageType   string // "memory", "s3"
	S3            S3Config
	PublicBaseURL string

	// Optional Redis URL for cross-instance event propagation
	RedisURL string
}

// S3Config represents the S3-compatible storage configuration
type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UsePathStyle    bool
}

// Validate validates the server configuration. When S3 storage is selected
// it reports every missing variable at once, so a misconfigured deployment
// can be fixed in a single pass.
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database type must be 'memory' or 'postgres'")
	}

	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required when using postgres")
	}

	switch c.StorageType {
	case "memory":
		// Nothing to check.
	case "s3":
		var missing []string
		if c.S3.Endpoint == "" {
			missing = append(missing, "S3_ENDPOINT")
		}
		if c.S3.AccessKeyID == "" {
			missing = append(missing, "S3_ACCESS_KEY_ID")
		}
		if c.S3.SecretAccessKey == "" {
			missing = append(missing, "S3_SECRET_ACCESS_KEY")
		}
		if c.S3.Bucket == "" {
			missing = append(missing, "S3_BUCKET_NAME")
		}
		if c.PublicBaseURL == "" {
			missing = append(missing, "S3_PUBLIC_URL")
		}
		if len(missing) > 0 {
			return fmt.Errorf("missing required S3 configuration environment variables: %s",
				strings.Join(missing, ", "))
		}
	default:
		return errors.New("storage type must be 'memory' or 's3'")
	}

	return nil
}

// BuildRepository creates the object repository. The returned closer releases
// the underlying connection pool, if any.
func (c *ServerConfig) BuildRepository(ctx context.Context) (simpleobjects.Repository, func(), error) {
	switch c.DatabaseType {
	case "postgres":
		pool, err := pgxpool.New(ctx, c.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create connection pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to ping database: %w", err)
		}
		return postgresrepo.NewWithPool(pool), pool.Close, nil
	default:
		return memoryrepo.New(), func() {}, nil
	}
}

// BuildImageStore creates the image store on top of the configured storage
// backend
func (c *ServerConfig) BuildImageStore(logger zerolog.Logger) (*imagestore.Store, error) {
	var backend simpleobjects.BlobStore
	var err error

	switch c.StorageType {
	case "s3":
		backend, err = s3storage.New(s3storage.Config{
			Endpoint:        c.S3.Endpoint,
			Region:          c.S3.Region,
			AccessKeyID:     c.S3.AccessKeyID,
			SecretAccessKey: c.S3.SecretAccessKey,
			Bucket:          c.S3.Bucket,
			UsePathStyle:    c.S3.UsePathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build S3 backend: %w", err)
		}
	default:
		backend = memorystorage.New()
	}

	return imagestore.New(backend, imagestore.Config{
		PublicBaseURL: c.PublicBaseURL,
		BackendName:   c.StorageType,
	}, logger)
}
