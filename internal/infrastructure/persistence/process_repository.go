package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradewiser/backend/internal/domain/process"
	"github.com/tradewiser/backend/internal/domain/shared"
)

// GormProcessRepository implements process.Repository using GORM.
// All reads preload stages so callers always see the full pipeline.
type GormProcessRepository struct {
	db *gorm.DB
}

// NewGormProcessRepository creates a new GormProcessRepository
func NewGormProcessRepository(db *gorm.DB) *GormProcessRepository {
	return &GormProcessRepository{db: db}
}

// FindByID finds a process by its ID
func (r *GormProcessRepository) FindByID(ctx context.Context, id uuid.UUID) (*process.Process, error) {
	var p process.Process
	if err := r.db.WithContext(ctx).
		Preload("Stages", stageOrder).
		First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByIDForOwner finds a process by ID scoped to its owner
func (r *GormProcessRepository) FindByIDForOwner(ctx context.Context, id, ownerID uuid.UUID) (*process.Process, error) {
	var p process.Process
	if err := r.db.WithContext(ctx).
		Preload("Stages", stageOrder).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByCommodity finds the most recent process of a kind for a commodity
func (r *GormProcessRepository) FindByCommodity(ctx context.Context, commodityID uuid.UUID, kind process.Kind) (*process.Process, error) {
	var p process.Process
	if err := r.db.WithContext(ctx).
		Preload("Stages", stageOrder).
		Where("commodity_id = ? AND kind = ?", commodityID, kind).
		Order("created_at DESC").
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindActiveForOwner finds in-progress processes belonging to an owner
func (r *GormProcessRepository) FindActiveForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]*process.Process, error) {
	var processes []*process.Process
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&process.Process{}).
			Preload("Stages", stageOrder).
			Where("owner_id = ? AND status = ?", ownerID, process.StatusInProgress),
		filter,
	)

	if err := query.Find(&processes).Error; err != nil {
		return nil, err
	}
	return processes, nil
}

// FindAllForOwner finds all processes belonging to an owner
func (r *GormProcessRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]*process.Process, error) {
	var processes []*process.Process
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&process.Process{}).
			Preload("Stages", stageOrder).
			Where("owner_id = ?", ownerID),
		filter,
	)

	if err := query.Find(&processes).Error; err != nil {
		return nil, err
	}
	return processes, nil
}

// Save creates or updates a process together with its stages
func (r *GormProcessRepository) Save(ctx context.Context, p *process.Process) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(p).Error
}

// Count counts processes for an owner matching the filter
func (r *GormProcessRepository) Count(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&process.Process{}).Where("owner_id = ?", ownerID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func stageOrder(db *gorm.DB) *gorm.DB {
	return db.Order("seq ASC")
}

func (r *GormProcessRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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

func (r *GormProcessRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "kind":
			query = query.Where("kind = ?", value)
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

// Ensure GormProcessRepository implements Repository
var _ process.Repository = (*GormProcessRepository)(nil)
