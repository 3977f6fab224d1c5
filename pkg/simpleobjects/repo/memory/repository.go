// Package memory provides an in-memory implementation of the
// simpleobjects.Repository interface for testing and development.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/tendant/simple-objects/pkg/simpleobjects"
)

// Repository implements simpleobjects.Repository using in-memory storage
type Repository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*simpleobjects.ObjectRecord
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		records: make(map[uuid.UUID]*simpleobjects.ObjectRecord),
	}
}

func (r *Repository) CreateObjectRecord(ctx context.Context, record *simpleobjects.ObjectRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Store a copy to avoid external modifications
	recordCopy := *record
	r.records[record.ID] = &recordCopy

	return nil
}

func (r *Repository) GetObjectRecord(ctx context.Context, id uuid.UUID) (*simpleobjects.ObjectRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, exists := r.records[id]
	if !exists {
		return nil, simpleobjects.ErrObjectNotFound
	}

	recordCopy := *record
	return &recordCopy, nil
}

func (r *Repository) ListObjectRecords(ctx context.Context) ([]*simpleobjects.ObjectRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*simpleobjects.ObjectRecord, 0, len(r.records))
	for _, record := range r.records {
		recordCopy := *record
		result = append(result, &recordCopy)
	}

	// Sort by created_at descending
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

func (r *Repository) DeleteObjectRecord(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[id]; !exists {
		return simpleobjects.ErrObjectNotFound
	}

	delete(r.records, id)
	return nil
}
