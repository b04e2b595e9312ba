package process

import (
	"context"

	"github.com/google/uuid"
	"github.com/tradewiser/backend/internal/domain/shared"
)

// Repository defines the persistence interface for processes. Reads
// must load stages with the process since callers inspect the pipeline.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Process, error)
	FindByIDForOwner(ctx context.Context, id, ownerID uuid.UUID) (*Process, error)
	FindByCommodity(ctx context.Context, commodityID uuid.UUID, kind Kind) (*Process, error)
	FindActiveForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]*Process, error)
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]*Process, error)
	Save(ctx context.Context, p *Process) error
	Count(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error)
}
