package payment

import (
	"context"

	"github.com/google/uuid"
	"github.com/tradewiser/backend/internal/domain/shared"
)

// Repository defines the persistence interface for payments
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindByIDForOwner(ctx context.Context, id, ownerID uuid.UUID) (*Payment, error)
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]*Payment, error)
	FindByReference(ctx context.Context, referenceID uuid.UUID) ([]*Payment, error)
	Save(ctx context.Context, p *Payment) error
	Count(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error)
}
