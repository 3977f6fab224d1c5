package simpleobjects

import (
	"time"

	"github.com/google/uuid"
)

// ObjectRecord is the domain entity managed by this library. ImageURL is nil
// when no image was uploaded with the record. Records are never updated in
// place; they are created once and eventually deleted.
type ObjectRecord struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Title and description length constraints enforced before any side effect.
const (
	TitleMinLength = 1
	TitleMaxLength = 255

	DescriptionMinLength = 1
	DescriptionMaxLength = 2000
)

// ObjectCreatedEvent is the payload broadcast to realtime clients when an
// object is created.
type ObjectCreatedEvent struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ObjectDeletedEvent is the payload broadcast to realtime clients when an
// object is deleted.
type ObjectDeletedEvent struct {
	ID        uuid.UUID `json:"id"`
	DeletedAt time.Time `json:"deletedAt"`
}
