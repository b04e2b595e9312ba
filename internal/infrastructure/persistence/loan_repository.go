package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradewiser/backend/internal/domain/loan"
	"github.com/tradewiser/backend/internal/domain/shared"
)

// GormLoanRepository implements loan.Repository using GORM
type GormLoanRepository struct {
	db *gorm.DB
}

// NewGormLoanRepository creates a new GormLoanRepository
func NewGormLoanRepository(db *gorm.DB) *GormLoanRepository {
	return &GormLoanRepository{db: db}
}

// FindByID finds a loan by its ID
func (r *GormLoanRepository) FindByID(ctx context.Context, id uuid.UUID) (*loan.Loan, error) {
	var l loan.Loan
	if err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// FindByIDForOwner finds a loan by ID scoped to its owner
func (r *GormLoanRepository) FindByIDForOwner(ctx context.Context, id, ownerID uuid.UUID) (*loan.Loan, error) {
	var l loan.Loan
	if err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&l).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// FindByReceipt finds the most recent loan collateralized by a receipt
func (r *GormLoanRepository) FindByReceipt(ctx context.Context, receiptID uuid.UUID) (*loan.Loan, error) {
	var l loan.Loan
	if err := r.db.WithContext(ctx).
		Where("receipt_id = ?", receiptID).
		Order("created_at DESC").
		First(&l).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// FindAllForOwner finds all loans belonging to an owner
func (r *GormLoanRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]*loan.Loan, error) {
	var loans []*loan.Loan
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&loan.Loan{}).Where("owner_id = ?", ownerID),
		filter,
	)

	if err := query.Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}

// FindActive finds all active loans across owners. Used by the interest
// accrual job.
func (r *GormLoanRepository) FindActive(ctx context.Context, filter shared.Filter) ([]*loan.Loan, error) {
	var loans []*loan.Loan
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&loan.Loan{}).Where("status = ?", loan.StatusActive),
		filter,
	)

	if err := query.Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}

// Save creates or updates a loan
func (r *GormLoanRepository) Save(ctx context.Context, l *loan.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

// Count counts loans for an owner matching the filter
func (r *GormLoanRepository) Count(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&loan.Loan{}).Where("owner_id = ?", ownerID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormLoanRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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

func (r *GormLoanRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "receipt_id":
			query = query.Where("receipt_id = ?", value)
		}
	}

	return query
}

// Ensure GormLoanRepository implements Repository
var _ loan.Repository = (*GormLoanRepository)(nil)
