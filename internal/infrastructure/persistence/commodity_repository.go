package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradewiser/backend/internal/domain/commodity"
	"github.com/tradewiser/backend/internal/domain/shared"
)

// GormCommodityRepository implements commodity.Repository using GORM
type GormCommodityRepository struct {
	db *gorm.DB
}

// NewGormCommodityRepository creates a new GormCommodityRepository
func NewGormCommodityRepository(db *gorm.DB) *GormCommodityRepository {
	return &GormCommodityRepository{db: db}
}

// FindByID finds a commodity by its ID
func (r *GormCommodityRepository) FindByID(ctx context.Context, id uuid.UUID) (*commodity.Commodity, error) {
	var c commodity.Commodity
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByIDForOwner finds a commodity by ID scoped to its owner
func (r *GormCommodityRepository) FindByIDForOwner(ctx context.Context, id, ownerID uuid.UUID) (*commodity.Commodity, error) {
	var c commodity.Commodity
	if err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindAllForOwner finds all commodities belonging to an owner
func (r *GormCommodityRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]*commodity.Commodity, error) {
	var commodities []*commodity.Commodity
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&commodity.Commodity{}).Where("owner_id = ?", ownerID),
		filter,
	)

	if err := query.Find(&commodities).Error; err != nil {
		return nil, err
	}
	return commodities, nil
}

// FindByWarehouse finds all commodities stored in a warehouse
func (r *GormCommodityRepository) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]*commodity.Commodity, error) {
	var commodities []*commodity.Commodity
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&commodity.Commodity{}).Where("warehouse_id = ?", warehouseID),
		filter,
	)

	if err := query.Find(&commodities).Error; err != nil {
		return nil, err
	}
	return commodities, nil
}

// FindActiveByCategory finds all active commodities in a category.
// Used by the pricing worker to revalue stock after a market update.
func (r *GormCommodityRepository) FindActiveByCategory(ctx context.Context, category commodity.Category) ([]*commodity.Commodity, error) {
	var commodities []*commodity.Commodity
	if err := r.db.WithContext(ctx).
		Where("category = ? AND status = ?", category, commodity.StatusActive).
		Find(&commodities).Error; err != nil {
		return nil, err
	}
	return commodities, nil
}

// Save creates or updates a commodity
func (r *GormCommodityRepository) Save(ctx context.Context, c *commodity.Commodity) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// Delete deletes a commodity
func (r *GormCommodityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&commodity.Commodity{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts commodities for an owner matching the filter
func (r *GormCommodityRepository) Count(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&commodity.Commodity{}).Where("owner_id = ?", ownerID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormCommodityRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
		query = query.Order("created_at DESC")
	}

	return query
}

func (r *GormCommodityRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ?", searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "category":
			query = query.Where("category = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		}
	}

	return query
}

// Ensure GormCommodityRepository implements Repository
var _ commodity.Repository = (*GormCommodityRepository)(nil)
