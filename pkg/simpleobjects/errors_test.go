package simpleobjects_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/tendant/simple-objects/pkg/simpleobjects"
)

func TestObjectErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &simpleobjects.ObjectError{ObjectID: uuid.New(), Op: "create", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "create")
}

func TestObjectErrorWrapsSentinel(t *testing.T) {
	err := &simpleobjects.ObjectError{ObjectID: uuid.New(), Op: "delete", Err: simpleobjects.ErrObjectNotFound}
	assert.ErrorIs(t, err, simpleobjects.ErrObjectNotFound)
}

func TestStorageErrorUnwrap(t *testing.T) {
	cause := errors.New("bucket does not exist")
	err := &simpleobjects.StorageError{Backend: "s3", Key: "objects/1.jpg", Op: "upload", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "objects/1.jpg")
	assert.Contains(t, err.Error(), "s3")
}
