package simpleobjects

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// service implements the Service interface
type service struct {
	repository Repository
	images     ImageStore
	eventSink  EventSink
	logger     zerolog.Logger
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithImageStore sets the image store for the service
func WithImageStore(store ImageStore) Option {
	return func(s *service) {
		s.images = store
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.eventSink = sink
	}
}

// WithLogger sets the logger for the service
func WithLogger(logger zerolog.Logger) Option {
	return func(s *service) {
		s.logger = logger.With().Str("component", "simpleobjects").Logger()
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		eventSink: NewNoopEventSink(),
		logger:    zerolog.Nop(),
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}

	return s, nil
}

func (s *service) CreateObject(ctx context.Context, req CreateObjectRequest) (*ObjectRecord, error) {
	var imageURL *string

	if req.Image != nil {
		if s.images == nil {
			return nil, errors.New("image store is not configured")
		}
		url, err := s.images.Upload(ctx, req.Image.Data, req.Image.ContentType, req.Image.FileName)
		if err != nil {
			return nil, err
		}
		imageURL = &url
	}

	now := time.Now().UTC()
	record := &ObjectRecord{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    imageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repository.CreateObjectRecord(ctx, record); err != nil {
		// Persistence failed after the image was already stored: remove the
		// uploaded blob so it does not leak, then surface the original error.
		if imageURL != nil {
			s.images.Delete(ctx, *imageURL)
		}
		return nil, &ObjectError{ObjectID: record.ID, Op: "create", Err: err}
	}

	if err := s.eventSink.ObjectCreated(ctx, record); err != nil {
		s.logger.Warn().Err(err).Str("object_id", record.ID.String()).Msg("objectCreated event not delivered")
	}

	return record, nil
}

func (s *service) GetObject(ctx context.Context, id uuid.UUID) (*ObjectRecord, error) {
	return s.repository.GetObjectRecord(ctx, id)
}

func (s *service) ListObjects(ctx context.Context) ([]*ObjectRecord, error) {
	return s.repository.ListObjectRecords(ctx)
}

func (s *service) DeleteObject(ctx context.Context, id uuid.UUID) error {
	record, err := s.repository.GetObjectRecord(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repository.DeleteObjectRecord(ctx, id); err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return err
		}
		return &ObjectError{ObjectID: id, Op: "delete", Err: err}
	}

	// The record is gone; losing the blob delete leaves an orphan in storage,
	// which is recoverable, so it must not fail the operation.
	if record.ImageURL != nil && s.images != nil {
		s.images.Delete(ctx, *record.ImageURL)
	}

	deletedAt := time.Now().UTC()
	if err := s.eventSink.ObjectDeleted(ctx, id, deletedAt); err != nil {
		s.logger.Warn().Err(err).Str("object_id", id.String()).Msg("objectDeleted event not delivered")
	}

	return nil
}
