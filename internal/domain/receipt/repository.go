package receipt

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tradewiser/backend/internal/domain/shared"
)

// Repository defines the persistence interface for warehouse receipts
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*WarehouseReceipt, error)
	FindByIDForOwner(ctx context.Context, id, ownerID uuid.UUID) (*WarehouseReceipt, error)
	FindByNumber(ctx context.Context, number string) (*WarehouseReceipt, error)
	FindByVerificationCode(ctx context.Context, code string) (*WarehouseReceipt, error)
	FindByCommodity(ctx context.Context, commodityID uuid.UUID) (*WarehouseReceipt, error)
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]*WarehouseReceipt, error)
	FindActiveByCommodityCategory(ctx context.Context, category string) ([]*WarehouseReceipt, error)
	FindActiveExpired(ctx context.Context, asOf time.Time) ([]*WarehouseReceipt, error)
	Save(ctx context.Context, r *WarehouseReceipt) error
	Count(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error)
}
