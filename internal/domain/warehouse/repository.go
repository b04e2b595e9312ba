package warehouse

import (
	"context"

	"github.com/google/uuid"
	"github.com/tradewiser/backend/internal/domain/shared"
)

// Repository defines the persistence interface for warehouses
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Warehouse, error)
	FindByCode(ctx context.Context, code string) (*Warehouse, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Warehouse, error)
	FindNearby(ctx context.Context, lat, lng, radiusKM float64, limit int) ([]*Warehouse, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, w *Warehouse) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
