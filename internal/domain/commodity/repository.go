package commodity

import (
	"context"

	"github.com/google/uuid"
	"github.com/tradewiser/backend/internal/domain/shared"
)

// Repository defines the persistence interface for commodities
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Commodity, error)
	FindByIDForOwner(ctx context.Context, id, ownerID uuid.UUID) (*Commodity, error)
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]*Commodity, error)
	FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]*Commodity, error)
	FindActiveByCategory(ctx context.Context, category Category) ([]*Commodity, error)
	Save(ctx context.Context, c *Commodity) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error)
}

// SackRepository defines the persistence interface for sacks
type SackRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Sack, error)
	FindByCode(ctx context.Context, code string) (*Sack, error)
	FindByCommodity(ctx context.Context, commodityID uuid.UUID) ([]*Sack, error)
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]*Sack, error)
	SaveAll(ctx context.Context, sacks []*Sack) error
	Save(ctx context.Context, s *Sack) error
}
