package simpleobjects

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the main interface for the simple-objects library
type Service interface {
	// CreateObject uploads the image (when present) and persists a new
	// record. If persistence fails after the image was uploaded, the
	// uploaded blob is deleted before the error is returned.
	CreateObject(ctx context.Context, req CreateObjectRequest) (*ObjectRecord, error)

	// GetObject returns the record with the given ID
	GetObject(ctx context.Context, id uuid.UUID) (*ObjectRecord, error)

	// ListObjects returns all records, most recent first
	ListObjects(ctx context.Context) ([]*ObjectRecord, error)

	// DeleteObject removes the record and makes a best-effort attempt to
	// delete the associated image blob
	DeleteObject(ctx context.Context, id uuid.UUID) error
}
