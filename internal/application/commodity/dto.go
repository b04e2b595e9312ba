package commodity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradewiser/backend/internal/domain/commodity"
)

// ListFilter represents filter options for commodity listing
type ListFilter struct {
	Search      string     `form:"search"`
	Category    string     `form:"category" binding:"omitempty,oneof=cereal pulse oilseed spice cash_crop"`
	Status      string     `form:"status" binding:"omitempty,oneof=processing active withdrawn transferred"`
	WarehouseID *uuid.UUID `form:"warehouse_id"`
	Page        int        `form:"page" binding:"omitempty,min=1"`
	PageSize    int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy     string     `form:"order_by"`
	OrderDir    string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SplitRequest splits a commodity lot into sacks
type SplitRequest struct {
	Count int `json:"count" binding:"required,min=1,max=10000"`
}

// TransferSackRequest transfers sack ownership
type TransferSackRequest struct {
	ToUserID uuid.UUID `json:"to_user_id" binding:"required"`
}

// Response represents a commodity in API responses
type Response struct {
	ID           uuid.UUID          `json:"id"`
	OwnerID      uuid.UUID          `json:"owner_id"`
	WarehouseID  uuid.UUID          `json:"warehouse_id"`
	Name         string             `json:"name"`
	Category     commodity.Category `json:"category"`
	QuantityMT   decimal.Decimal    `json:"quantity_mt"`
	QualityGrade string             `json:"quality_grade,omitempty"`
	Quality      json.RawMessage    `json:"quality,omitempty"`
	PricePerMT   decimal.Decimal    `json:"price_per_mt"`
	Valuation    decimal.Decimal    `json:"valuation"`
	Status       commodity.Status   `json:"status"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// SackResponse represents a sack in API responses
type SackResponse struct {
	ID           uuid.UUID            `json:"id"`
	OwnerID      uuid.UUID            `json:"owner_id"`
	CommodityID  uuid.UUID            `json:"commodity_id"`
	Code         string               `json:"code"`
	WeightMT     decimal.Decimal      `json:"weight_mt"`
	QualityGrade string               `json:"quality_grade,omitempty"`
	Status       commodity.SackStatus `json:"status"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// ToResponse maps a commodity aggregate to its API representation
func ToResponse(c *commodity.Commodity) Response {
	var quality json.RawMessage
	if c.Quality != "" {
		quality = json.RawMessage(c.Quality)
	}
	return Response{
		ID:           c.ID,
		OwnerID:      c.OwnerID,
		WarehouseID:  c.WarehouseID,
		Name:         c.Name,
		Category:     c.Category,
		QuantityMT:   c.QuantityMT,
		QualityGrade: c.QualityGrade,
		Quality:      quality,
		PricePerMT:   c.PricePerMT,
		Valuation:    c.Valuation,
		Status:       c.Status,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// ToSackResponse maps a sack to its API representation
func ToSackResponse(s *commodity.Sack) SackResponse {
	return SackResponse{
		ID:           s.ID,
		OwnerID:      s.OwnerID,
		CommodityID:  s.CommodityID,
		Code:         s.Code,
		WeightMT:     s.WeightMT,
		QualityGrade: s.QualityGrade,
		Status:       s.Status,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// ToSackResponses maps a slice of sacks
func ToSackResponses(sacks []*commodity.Sack) []SackResponse {
	responses := make([]SackResponse, 0, len(sacks))
	for _, s := range sacks {
		responses = append(responses, ToSackResponse(s))
	}
	return responses
}
