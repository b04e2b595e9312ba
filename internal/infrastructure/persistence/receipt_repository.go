package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradewiser/backend/internal/domain/receipt"
	"github.com/tradewiser/backend/internal/domain/shared"
)

// GormReceiptRepository implements receipt.Repository using GORM.
// Reads preload attachments so the document list travels with the receipt.
type GormReceiptRepository struct {
	db *gorm.DB
}

// NewGormReceiptRepository creates a new GormReceiptRepository
func NewGormReceiptRepository(db *gorm.DB) *GormReceiptRepository {
	return &GormReceiptRepository{db: db}
}

// FindByID finds a receipt by its ID
func (r *GormReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*receipt.WarehouseReceipt, error) {
	var wr receipt.WarehouseReceipt
	if err := r.db.WithContext(ctx).
		Preload("Attachments").
		First(&wr, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &wr, nil
}

// FindByIDForOwner finds a receipt by ID scoped to its owner
func (r *GormReceiptRepository) FindByIDForOwner(ctx context.Context, id, ownerID uuid.UUID) (*receipt.WarehouseReceipt, error) {
	var wr receipt.WarehouseReceipt
	if err := r.db.WithContext(ctx).
		Preload("Attachments").
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&wr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &wr, nil
}

// FindByNumber finds a receipt by its eWR number
func (r *GormReceiptRepository) FindByNumber(ctx context.Context, number string) (*receipt.WarehouseReceipt, error) {
	var wr receipt.WarehouseReceipt
	if err := r.db.WithContext(ctx).
		Preload("Attachments").
		Where("number = ?", number).
		First(&wr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &wr, nil
}

// FindByVerificationCode finds a receipt by its QR verification code
func (r *GormReceiptRepository) FindByVerificationCode(ctx context.Context, code string) (*receipt.WarehouseReceipt, error) {
	var wr receipt.WarehouseReceipt
	if err := r.db.WithContext(ctx).
		Preload("Attachments").
		Where("verification_code = ?", code).
		First(&wr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &wr, nil
}

// FindByCommodity finds the receipt issued against a commodity
func (r *GormReceiptRepository) FindByCommodity(ctx context.Context, commodityID uuid.UUID) (*receipt.WarehouseReceipt, error) {
	var wr receipt.WarehouseReceipt
	if err := r.db.WithContext(ctx).
		Preload("Attachments").
		Where("commodity_id = ?", commodityID).
		Order("issued_at DESC").
		First(&wr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &wr, nil
}

// FindAllForOwner finds all receipts belonging to an owner
func (r *GormReceiptRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]*receipt.WarehouseReceipt, error) {
	var receipts []*receipt.WarehouseReceipt
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&receipt.WarehouseReceipt{}).
			Preload("Attachments").
			Where("owner_id = ?", ownerID),
		filter,
	)

	if err := query.Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

// FindActiveByCommodityCategory finds active receipts whose underlying
// commodity is in the given category. Used by the pricing worker to
// refresh receipt valuations after a market price update.
func (r *GormReceiptRepository) FindActiveByCommodityCategory(ctx context.Context, category string) ([]*receipt.WarehouseReceipt, error) {
	var receipts []*receipt.WarehouseReceipt
	if err := r.db.WithContext(ctx).
		Model(&receipt.WarehouseReceipt{}).
		Joins("JOIN commodities ON commodities.id = warehouse_receipts.commodity_id").
		Where("warehouse_receipts.status = ? AND commodities.category = ?", receipt.StatusActive, category).
		Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

// FindActiveExpired finds receipts still marked active whose validity
// window has passed. Used by the expiry sweep.
func (r *GormReceiptRepository) FindActiveExpired(ctx context.Context, asOf time.Time) ([]*receipt.WarehouseReceipt, error) {
	var receipts []*receipt.WarehouseReceipt
	if err := r.db.WithContext(ctx).
		Model(&receipt.WarehouseReceipt{}).
		Where("status = ? AND expires_at < ?", receipt.StatusActive, asOf).
		Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

// Save creates or updates a receipt together with its attachments
func (r *GormReceiptRepository) Save(ctx context.Context, wr *receipt.WarehouseReceipt) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(wr).Error
}

// Count counts receipts for an owner matching the filter
func (r *GormReceiptRepository) Count(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&receipt.WarehouseReceipt{}).Where("owner_id = ?", ownerID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormReceiptRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("issued_at DESC")
	}

	return query
}

func (r *GormReceiptRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("number ILIKE ?", searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "commodity_id":
			query = query.Where("commodity_id = ?", value)
		}
	}

	return query
}

// Ensure GormReceiptRepository implements Repository
var _ receipt.Repository = (*GormReceiptRepository)(nil)
