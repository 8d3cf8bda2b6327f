package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is implemented by every persisted domain object
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity holds identity and audit timestamps
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// Touch moves UpdatedAt forward to now
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}

// NewBaseEntity creates a base entity with a fresh ID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SoftDeletable marks an entity that is never removed from storage.
// Default queries only see rows with IsDeleted == false.
type SoftDeletable struct {
	IsDeleted bool
	DeletedAt *time.Time
}

// MarkDeleted flags the entity as deleted at the given instant.
// Calling it on an already deleted entity keeps the original timestamp.
func (s *SoftDeletable) MarkDeleted(at time.Time) bool {
	if s.IsDeleted {
		return false
	}
	s.IsDeleted = true
	s.DeletedAt = &at
	return true
}

// Deleted reports whether the entity was soft deleted
func (s *SoftDeletable) Deleted() bool {
	return s.IsDeleted
}
