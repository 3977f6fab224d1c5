package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-objects/pkg/simpleobjects"
	"github.com/tendant/simple-objects/pkg/simpleobjects/repo/memory"
)

func newRecord(title string, createdAt time.Time) *simpleobjects.ObjectRecord {
	return &simpleobjects.ObjectRecord{
		ID:          uuid.New(),
		Title:       title,
		Description: "a description",
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func TestCreateAndGetObjectRecord(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	record := newRecord("Chair", time.Now().UTC())
	require.NoError(t, repo.CreateObjectRecord(ctx, record))

	stored, err := repo.GetObjectRecord(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, stored.ID)
	assert.Equal(t, "Chair", stored.Title)
}

func TestGetObjectRecordNotFound(t *testing.T) {
	repo := memory.New()

	_, err := repo.GetObjectRecord(context.Background(), uuid.New())
	assert.ErrorIs(t, err, simpleobjects.ErrObjectNotFound)
}

func TestGetObjectRecordReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	record := newRecord("Chair", time.Now().UTC())
	require.NoError(t, repo.CreateObjectRecord(ctx, record))

	first, err := repo.GetObjectRecord(ctx, record.ID)
	require.NoError(t, err)
	first.Title = "mutated"

	second, err := repo.GetObjectRecord(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chair", second.Title)
}

func TestListObjectRecordsNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	base := time.Now().UTC()
	oldest := newRecord("oldest", base.Add(-2*time.Hour))
	middle := newRecord("middle", base.Add(-1*time.Hour))
	newest := newRecord("newest", base)

	for _, record := range []*simpleobjects.ObjectRecord{middle, oldest, newest} {
		require.NoError(t, repo.CreateObjectRecord(ctx, record))
	}

	records, err := repo.ListObjectRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "newest", records[0].Title)
	assert.Equal(t, "middle", records[1].Title)
	assert.Equal(t, "oldest", records[2].Title)
}

func TestListObjectRecordsEmpty(t *testing.T) {
	repo := memory.New()

	records, err := repo.ListObjectRecords(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDeleteObjectRecord(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	record := newRecord("Chair", time.Now().UTC())
	require.NoError(t, repo.CreateObjectRecord(ctx, record))

	require.NoError(t, repo.DeleteObjectRecord(ctx, record.ID))

	_, err := repo.GetObjectRecord(ctx, record.ID)
	assert.ErrorIs(t, err, simpleobjects.ErrObjectNotFound)

	err = repo.DeleteObjectRecord(ctx, record.ID)
	assert.ErrorIs(t, err, simpleobjects.ErrObjectNotFound)
}
