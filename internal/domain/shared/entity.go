package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity identifies anything with a stable UUID identity.
type Entity interface {
	GetID() uuid.UUID
}

// BaseEntity carries the identity and audit timestamps every persisted
// domain object shares. Aggregates embed it through BaseAggregateRoot.
type BaseEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// NewBaseEntity assigns a fresh UUID and stamps both timestamps.
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
