package simpleobjects

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrObjectNotFound indicates no object exists for the requested ID
	ErrObjectNotFound = errors.New("object not found")

	// ErrInvalidImageType indicates an upload with a content type outside the
	// allowed image set
	ErrInvalidImageType = errors.New("invalid file type. Allowed types: image/jpeg, image/png, image/gif, image/webp")

	// ErrImageTooLarge indicates an upload exceeding the size limit
	ErrImageTooLarge = errors.New("file size must not exceed 5MB")

	// ErrEmptyImage indicates an upload with no bytes
	ErrEmptyImage = errors.New("no file content provided")
)

// ObjectError represents an error related to object lifecycle operations
type ObjectError struct {
	ObjectID uuid.UUID
	Op       string
	Err      error
}

func (e *ObjectError) Error() string {
	return fmt.Sprintf("object operation %s failed for object %s: %v", e.Op, e.ObjectID, e.Err)
}

func (e *ObjectError) Unwrap() error {
	return e.Err
}

// StorageError represents an error related to blob storage operations
type StorageError struct {
	Backend string
	Key     string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s on backend %s: %v", e.Op, e.Key, e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
