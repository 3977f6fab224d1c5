package simpleobjects

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// BlobStore defines the interface for blob storage backends
type BlobStore interface {
	// Upload uploads content under the given key
	Upload(ctx context.Context, reader io.Reader, params UploadParams) error

	// Download downloads content by key
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// Delete deletes content by key
	Delete(ctx context.Context, objectKey string) error

	// GetObjectMeta retrieves metadata for a stored blob
	GetObjectMeta(ctx context.Context, objectKey string) (*ObjectMeta, error)
}

// UploadParams contains parameters for uploading a blob
type UploadParams struct {
	ObjectKey string
	MimeType  string
}

// ObjectMeta contains metadata about a blob in storage
type ObjectMeta struct {
	Key         string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
	ETag        string
}

// ImageStore is the blob store client used by the service: it validates
// uploads, places them under generated keys, and addresses them by public
// URL. Delete is best-effort and never reports failure to the caller.
type ImageStore interface {
	Upload(ctx context.Context, data []byte, contentType, fileName string) (string, error)
	Delete(ctx context.Context, publicURL string)
}

// Repository defines the interface for object record persistence
type Repository interface {
	// CreateObjectRecord persists a new record
	CreateObjectRecord(ctx context.Context, record *ObjectRecord) error

	// GetObjectRecord returns the record with the given ID, or
	// ErrObjectNotFound
	GetObjectRecord(ctx context.Context, id uuid.UUID) (*ObjectRecord, error)

	// ListObjectRecords returns all records ordered by creation time,
	// most recent first
	ListObjectRecords(ctx context.Context) ([]*ObjectRecord, error)

	// DeleteObjectRecord removes the record with the given ID, or returns
	// ErrObjectNotFound
	DeleteObjectRecord(ctx context.Context, id uuid.UUID) error
}

// EventSink defines the interface for lifecycle event handling
type EventSink interface {
	// ObjectCreated is fired after an object is successfully created
	ObjectCreated(ctx context.Context, record *ObjectRecord) error

	// ObjectDeleted is fired after an object is successfully deleted
	ObjectDeleted(ctx context.Context, objectID uuid.UUID, deletedAt time.Time) error
}
