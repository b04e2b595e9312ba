package loan

import (
	"context"

	"github.com/google/uuid"
	"github.com/tradewiser/backend/internal/domain/shared"
)

// Repository defines the persistence interface for loans
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Loan, error)
	FindByIDForOwner(ctx context.Context, id, ownerID uuid.UUID) (*Loan, error)
	FindByReceipt(ctx context.Context, receiptID uuid.UUID) (*Loan, error)
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]*Loan, error)
	FindActive(ctx context.Context, filter shared.Filter) ([]*Loan, error)
	Save(ctx context.Context, l *Loan) error
	Count(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error)
}
