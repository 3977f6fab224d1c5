// Package imagestore implements the blob store client used for uploaded
// images: it validates content type and size, generates collision-resistant
// object keys, and maps stored blobs to public URLs.
package imagestore

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tendant/simple-objects/pkg/simpleobjects"
)

// MaxImageBytes is the upload size limit (5 MiB).
const MaxImageBytes = 5 * 1024 * 1024

// KeyPrefix is the namespace all image keys are generated under.
const KeyPrefix = "objects"

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Config options for the image store
type Config struct {
	// PublicBaseURL is the externally reachable URL prefix under which
	// stored keys are addressable, e.g. a CDN or bucket website domain.
	PublicBaseURL string

	// BackendName labels the storage backend in errors and logs.
	BackendName string
}

// Store validates and uploads image blobs to a storage backend and addresses
// them by public URL.
type Store struct {
	backend       simpleobjects.BlobStore
	backendName   string
	publicBaseURL string
	logger        zerolog.Logger
}

// New creates an image store on top of the given storage backend
func New(backend simpleobjects.BlobStore, cfg Config, logger zerolog.Logger) (*Store, error) {
	if backend == nil {
		return nil, errors.New("storage backend is required")
	}
	if strings.TrimSpace(cfg.PublicBaseURL) == "" {
		return nil, errors.New("public base URL is required")
	}

	backendName := cfg.BackendName
	if backendName == "" {
		backendName = "default"
	}

	return &Store{
		backend:       backend,
		backendName:   backendName,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		logger:        logger.With().Str("component", "imagestore").Logger(),
	}, nil
}

// Upload validates the image and stores it under a generated key. It returns
// the public URL of the stored blob.
func (s *Store) Upload(ctx context.Context, data []byte, contentType, fileName string) (string, error) {
	if len(data) == 0 {
		return "", simpleobjects.ErrEmptyImage
	}
	if _, ok := allowedImageTypes[contentType]; !ok {
		return "", simpleobjects.ErrInvalidImageType
	}
	if len(data) > MaxImageBytes {
		return "", simpleobjects.ErrImageTooLarge
	}

	key, err := generateKey(fileName, contentType)
	if err != nil {
		return "", err
	}

	params := simpleobjects.UploadParams{ObjectKey: key, MimeType: contentType}
	if err := s.backend.Upload(ctx, bytes.NewReader(data), params); err != nil {
		return "", &simpleobjects.StorageError{Backend: s.backendName, Key: key, Op: "upload", Err: err}
	}

	return s.publicBaseURL + "/" + key, nil
}

// Delete removes the blob addressed by the given public URL. Failures are
// logged and swallowed: a missing blob delete must never block the caller.
func (s *Store) Delete(ctx context.Context, publicURL string) {
	if publicURL == "" {
		return
	}

	key, ok := s.keyFromURL(publicURL)
	if !ok {
		s.logger.Warn().Str("url", publicURL).Msg("image URL outside public base URL, skipping delete")
		return
	}

	if err := s.backend.Delete(ctx, key); err != nil {
		s.logger.Warn().Err(err).Str("url", publicURL).Msg("failed to delete image blob, orphan left in storage")
	}
}

// keyFromURL derives the storage key by stripping the public base URL prefix.
func (s *Store) keyFromURL(publicURL string) (string, bool) {
	key, found := strings.CutPrefix(publicURL, s.publicBaseURL+"/")
	if !found || key == "" {
		return "", false
	}
	return key, true
}

// generateKey builds a collision-resistant key from a millisecond timestamp
// and a random component, preserving the original file extension.
func generateKey(fileName, contentType string) (string, error) {
	random := make([]byte, 8)
	if _, err := rand.Read(random); err != nil {
		return "", fmt.Errorf("failed to generate random key component: %w", err)
	}

	ext := strings.ToLower(path.Ext(fileName))
	if ext == "" {
		ext = allowedImageTypes[contentType]
	}

	return fmt.Sprintf("%s/%d-%s%s", KeyPrefix, time.Now().UnixMilli(), hex.EncodeToString(random), ext), nil
}
