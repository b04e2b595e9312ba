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

// GormSackRepository implements commodity.SackRepository using GORM
type GormSackRepository struct {
	db *gorm.DB
}

// NewGormSackRepository creates a new GormSackRepository
func NewGormSackRepository(db *gorm.DB) *GormSackRepository {
	return &GormSackRepository{db: db}
}

// FindByID finds a sack by its ID
func (r *GormSackRepository) FindByID(ctx context.Context, id uuid.UUID) (*commodity.Sack, error) {
	var s commodity.Sack
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindByCode finds a sack by its code
func (r *GormSackRepository) FindByCode(ctx context.Context, code string) (*commodity.Sack, error) {
	var s commodity.Sack
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(code)).
		First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindByCommodity finds all sacks split from a commodity
func (r *GormSackRepository) FindByCommodity(ctx context.Context, commodityID uuid.UUID) ([]*commodity.Sack, error) {
	var sacks []*commodity.Sack
	if err := r.db.WithContext(ctx).
		Where("commodity_id = ?", commodityID).
		Order("code ASC").
		Find(&sacks).Error; err != nil {
		return nil, err
	}
	return sacks, nil
}

// FindAllForOwner finds all sacks belonging to an owner
func (r *GormSackRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]*commodity.Sack, error) {
	var sacks []*commodity.Sack
	query := r.db.WithContext(ctx).
		Model(&commodity.Sack{}).
		Where("owner_id = ?", ownerID)

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "commodity_id":
			query = query.Where("commodity_id = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	query = query.Order("code ASC")

	if err := query.Find(&sacks).Error; err != nil {
		return nil, err
	}
	return sacks, nil
}

// SaveAll persists a batch of sacks
func (r *GormSackRepository) SaveAll(ctx context.Context, sacks []*commodity.Sack) error {
	if len(sacks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(sacks).Error
}

// Save creates or updates a sack
func (r *GormSackRepository) Save(ctx context.Context, s *commodity.Sack) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// Ensure GormSackRepository implements SackRepository
var _ commodity.SackRepository = (*GormSackRepository)(nil)
