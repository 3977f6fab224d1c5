// Package memory provides an in-memory implementation of the
// simpleobjects.BlobStore interface for testing and development.
package memory

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/tendant/simple-objects/pkg/simpleobjects"
)

// Backend is an in-memory implementation of the simpleobjects.BlobStore
// interface
type Backend struct {
	mu    sync.RWMutex
	blobs map[string]blob
}

type blob struct {
	data      []byte
	mimeType  string
	updatedAt time.Time
}

// New creates a new in-memory storage backend
func New() *Backend {
	return &Backend{
		blobs: make(map[string]blob),
	}
}

// Upload stores content under the given key
func (b *Backend) Upload(ctx context.Context, reader io.Reader, params simpleobjects.UploadParams) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	mimeType := params.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.blobs[params.ObjectKey] = blob{data: data, mimeType: mimeType, updatedAt: time.Now().UTC()}
	return nil
}

// Download returns stored content by key
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	stored, exists := b.blobs[objectKey]
	if !exists {
		return nil, errors.New("object not found")
	}

	return io.NopCloser(bytes.NewReader(stored.data)), nil
}

// Delete removes stored content by key
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.blobs[objectKey]; !exists {
		return errors.New("object not found")
	}

	delete(b.blobs, objectKey)
	return nil
}

// GetObjectMeta retrieves metadata for a stored blob
func (b *Backend) GetObjectMeta(ctx context.Context, objectKey string) (*simpleobjects.ObjectMeta, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	stored, exists := b.blobs[objectKey]
	if !exists {
		return nil, errors.New("object not found")
	}

	return &simpleobjects.ObjectMeta{
		Key:         objectKey,
		Size:        int64(len(stored.data)),
		ContentType: stored.mimeType,
		UpdatedAt:   stored.updatedAt,
	}, nil
}

// Len reports the number of stored blobs
func (b *Backend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.blobs)
}
