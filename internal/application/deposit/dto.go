package deposit

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradewiser/backend/internal/domain/commodity"
	"github.com/tradewiser/backend/internal/domain/process"
)

// IntakeRequest represents a request to deposit a commodity
type IntakeRequest struct {
	WarehouseID uuid.UUID          `json:"warehouse_id" binding:"required"`
	Name        string             `json:"name" binding:"required"`
	Category    commodity.Category `json:"category" binding:"required,oneof=cereal pulse oilseed spice cash_crop"`
	QuantityMT  decimal.Decimal    `json:"quantity_mt" binding:"required"`
}

// ListFilter represents filter options for deposit listing
type ListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=in_progress completed failed"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// StageResponse represents one pipeline stage
type StageResponse struct {
	Seq         int                 `json:"seq"`
	Name        string              `json:"name"`
	Status      process.StageStatus `json:"status"`
	Notes       string              `json:"notes,omitempty"`
	StartedAt   *time.Time          `json:"started_at,omitempty"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
}

// ProcessResponse represents a tracking process in API responses
type ProcessResponse struct {
	ID              uuid.UUID       `json:"id"`
	Kind            process.Kind    `json:"kind"`
	CommodityID     uuid.UUID       `json:"commodity_id"`
	WarehouseID     uuid.UUID       `json:"warehouse_id"`
	ReceiptID       *uuid.UUID      `json:"receipt_id,omitempty"`
	Status          process.Status  `json:"status"`
	ProgressPercent int             `json:"progress_percent"`
	Stages          []StageResponse `json:"stages"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// CommodityResponse represents a deposited commodity
type CommodityResponse struct {
	ID           uuid.UUID          `json:"id"`
	OwnerID      uuid.UUID          `json:"owner_id"`
	WarehouseID  uuid.UUID          `json:"warehouse_id"`
	Name         string             `json:"name"`
	Category     commodity.Category `json:"category"`
	QuantityMT   decimal.Decimal    `json:"quantity_mt"`
	QualityGrade string             `json:"quality_grade,omitempty"`
	PricePerMT   decimal.Decimal    `json:"price_per_mt"`
	Valuation    decimal.Decimal    `json:"valuation"`
	Status       commodity.Status   `json:"status"`
	CreatedAt    time.Time          `json:"created_at"`
}

// IntakeResponse is returned after a successful deposit intake
type IntakeResponse struct {
	Commodity CommodityResponse `json:"commodity"`
	Process   ProcessResponse   `json:"process"`
}

// ToProcessResponse maps a process aggregate to its API representation
func ToProcessResponse(p *process.Process) ProcessResponse {
	stages := make([]StageResponse, 0, len(p.Stages))
	for i := range p.Stages {
		s := &p.Stages[i]
		stages = append(stages, StageResponse{
			Seq:         s.Seq,
			Name:        s.Name,
			Status:      s.Status,
			Notes:       s.Notes,
			StartedAt:   s.StartedAt,
			CompletedAt: s.CompletedAt,
		})
	}
	return ProcessResponse{
		ID:              p.ID,
		Kind:            p.Kind,
		CommodityID:     p.CommodityID,
		WarehouseID:     p.WarehouseID,
		ReceiptID:       p.ReceiptID,
		Status:          p.Status,
		ProgressPercent: p.ProgressPercent(),
		Stages:          stages,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// ToCommodityResponse maps a commodity aggregate to its API representation
func ToCommodityResponse(c *commodity.Commodity) CommodityResponse {
	return CommodityResponse{
		ID:           c.ID,
		OwnerID:      c.OwnerID,
		WarehouseID:  c.WarehouseID,
		Name:         c.Name,
		Category:     c.Category,
		QuantityMT:   c.QuantityMT,
		QualityGrade: c.QualityGrade,
		PricePerMT:   c.PricePerMT,
		Valuation:    c.Valuation,
		Status:       c.Status,
		CreatedAt:    c.CreatedAt,
	}
}
