package imagestore_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-objects/pkg/simpleobjects"
	"github.com/tendant/simple-objects/pkg/simpleobjects/imagestore"
	memorystorage "github.com/tendant/simple-objects/pkg/simpleobjects/storage/memory"
)

func newTestStore(t *testing.T) (*imagestore.Store, *memorystorage.Backend) {
	t.Helper()

	backend := memorystorage.New()
	store, err := imagestore.New(backend, imagestore.Config{
		PublicBaseURL: "https://cdn.example.com/",
		BackendName:   "memory",
	}, zerolog.Nop())
	require.NoError(t, err)

	return store, backend
}

func TestNewRequiresBackendAndBaseURL(t *testing.T) {
	_, err := imagestore.New(nil, imagestore.Config{PublicBaseURL: "https://cdn.example.com"}, zerolog.Nop())
	assert.Error(t, err)

	_, err = imagestore.New(memorystorage.New(), imagestore.Config{}, zerolog.Nop())
	assert.Error(t, err)
}

func TestUploadStoresBlobAndReturnsPublicURL(t *testing.T) {
	ctx := context.Background()
	store, backend := newTestStore(t)

	data := []byte("fake jpeg bytes")
	url, err := store.Upload(ctx, data, "image/jpeg", "chair.jpg")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "https://cdn.example.com/objects/"), "got %q", url)
	assert.True(t, strings.HasSuffix(url, ".jpg"), "got %q", url)
	assert.Equal(t, 1, backend.Len())

	key := strings.TrimPrefix(url, "https://cdn.example.com/")
	reader, err := backend.Download(ctx, key)
	require.NoError(t, err)
	defer reader.Close()

	stored, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(data, stored))
}

func TestUploadDerivesExtensionFromContentType(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	url, err := store.Upload(ctx, []byte("fake png bytes"), "image/png", "no-extension")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(url, ".png"), "got %q", url)
}

func TestUploadGeneratesUniqueKeys(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	first, err := store.Upload(ctx, []byte("one"), "image/jpeg", "same.jpg")
	require.NoError(t, err)
	second, err := store.Upload(ctx, []byte("two"), "image/jpeg", "same.jpg")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestUploadRejectsInvalidContentType(t *testing.T) {
	ctx := context.Background()
	store, backend := newTestStore(t)

	_, err := store.Upload(ctx, []byte("%PDF-1.7"), "application/pdf", "doc.pdf")
	assert.ErrorIs(t, err, simpleobjects.ErrInvalidImageType)
	assert.Equal(t, 0, backend.Len())
}

func TestUploadRejectsOversizedImage(t *testing.T) {
	ctx := context.Background()
	store, backend := newTestStore(t)

	oversized := make([]byte, imagestore.MaxImageBytes+1)
	_, err := store.Upload(ctx, oversized, "image/jpeg", "huge.jpg")
	assert.ErrorIs(t, err, simpleobjects.ErrImageTooLarge)
	assert.Contains(t, err.Error(), "5MB")
	assert.Equal(t, 0, backend.Len())
}

func TestUploadRejectsEmptyImage(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	_, err := store.Upload(ctx, nil, "image/jpeg", "empty.jpg")
	assert.ErrorIs(t, err, simpleobjects.ErrEmptyImage)
}

func TestDeleteRemovesBlob(t *testing.T) {
	ctx := context.Background()
	store, backend := newTestStore(t)

	url, err := store.Upload(ctx, []byte("fake jpeg bytes"), "image/jpeg", "chair.jpg")
	require.NoError(t, err)
	require.Equal(t, 1, backend.Len())

	store.Delete(ctx, url)
	assert.Equal(t, 0, backend.Len())
}

func TestDeleteSkipsForeignURLs(t *testing.T) {
	ctx := context.Background()
	store, backend := newTestStore(t)

	_, err := store.Upload(ctx, []byte("fake jpeg bytes"), "image/jpeg", "chair.jpg")
	require.NoError(t, err)

	store.Delete(ctx, "https://other.example.com/objects/123.jpg")
	store.Delete(ctx, "")
	assert.Equal(t, 1, backend.Len())
}

func TestDeleteSwallowsBackendFailure(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	// No blob exists under this key; the backend error must not escape.
	store.Delete(ctx, "https://cdn.example.com/objects/missing.jpg")
}
