package warehouse

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradewiser/backend/internal/domain/warehouse"
)

// CreateWarehouseRequest represents a request to register a warehouse
type CreateWarehouseRequest struct {
	Code        string            `json:"code" binding:"required"`
	Name        string            `json:"name" binding:"required"`
	Type        warehouse.Type    `json:"type" binding:"required,oneof=standard cold_storage silo"`
	Channel     warehouse.Channel `json:"channel" binding:"required,oneof=green orange"`
	CapacityMT  decimal.Decimal   `json:"capacity_mt" binding:"required"`
	Address     string            `json:"address"`
	City        string            `json:"city"`
	State       string            `json:"state"`
	Latitude    *float64          `json:"latitude"`
	Longitude   *float64          `json:"longitude"`
	FeeRate     decimal.Decimal   `json:"fee_rate_per_mt"`
	ContactName string            `json:"contact_name"`
	Phone       string            `json:"phone"`
}

// UpdateWarehouseRequest represents a request to update warehouse details
type UpdateWarehouseRequest struct {
	Name        string   `json:"name" binding:"required"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	State       string   `json:"state"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	ContactName string   `json:"contact_name"`
	Phone       string   `json:"phone"`
}

// SetFeeRateRequest represents a request to change the storage fee rate
type SetFeeRateRequest struct {
	FeeRatePerMT decimal.Decimal `json:"fee_rate_per_mt" binding:"required"`
}

// SetChannelRequest represents a request to change the issuance channel
type SetChannelRequest struct {
	Channel warehouse.Channel `json:"channel" binding:"required,oneof=green orange"`
}

// ListFilter represents filter options for warehouse listing
type ListFilter struct {
	Search      string `form:"search"`
	Status      string `form:"status" binding:"omitempty,oneof=active inactive"`
	Type        string `form:"type" binding:"omitempty,oneof=standard cold_storage silo"`
	Channel     string `form:"channel" binding:"omitempty,oneof=green orange"`
	City        string `form:"city"`
	State       string `form:"state"`
	HasCapacity bool   `form:"has_capacity"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy     string `form:"order_by"`
	OrderDir    string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// NearbyQuery represents a proximity search for warehouses
type NearbyQuery struct {
	Latitude  float64 `form:"lat" binding:"required,min=-90,max=90"`
	Longitude float64 `form:"lng" binding:"required,min=-180,max=180"`
	RadiusKM  float64 `form:"radius_km" binding:"omitempty,min=1,max=500"`
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=50"`
}

// WarehouseResponse represents a warehouse in API responses
type WarehouseResponse struct {
	ID           uuid.UUID         `json:"id"`
	Code         string            `json:"code"`
	Name         string            `json:"name"`
	Type         warehouse.Type    `json:"type"`
	Channel      warehouse.Channel `json:"channel"`
	Status       warehouse.Status  `json:"status"`
	Address      string            `json:"address"`
	City         string            `json:"city"`
	State        string            `json:"state"`
	Latitude     float64           `json:"latitude"`
	Longitude    float64           `json:"longitude"`
	CapacityMT   decimal.Decimal   `json:"capacity_mt"`
	UsedMT       decimal.Decimal   `json:"used_mt"`
	AvailableMT  decimal.Decimal   `json:"available_mt"`
	FeeRatePerMT decimal.Decimal   `json:"fee_rate_per_mt"`
	ContactName  string            `json:"contact_name"`
	Phone        string            `json:"phone"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// ToWarehouseResponse maps a warehouse aggregate to its API representation
func ToWarehouseResponse(w *warehouse.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		ID:           w.ID,
		Code:         w.Code,
		Name:         w.Name,
		Type:         w.Type,
		Channel:      w.Channel,
		Status:       w.Status,
		Address:      w.Address,
		City:         w.City,
		State:        w.State,
		Latitude:     w.Latitude,
		Longitude:    w.Longitude,
		CapacityMT:   w.CapacityMT,
		UsedMT:       w.UsedMT,
		AvailableMT:  w.AvailableMT(),
		FeeRatePerMT: w.FeeRatePerMT,
		ContactName:  w.ContactName,
		Phone:        w.Phone,
		CreatedAt:    w.CreatedAt,
		UpdatedAt:    w.UpdatedAt,
	}
}

// ToWarehouseResponses maps a slice of warehouses
func ToWarehouseResponses(items []*warehouse.Warehouse) []WarehouseResponse {
	responses := make([]WarehouseResponse, 0, len(items))
	for _, w := range items {
		responses = append(responses, ToWarehouseResponse(w))
	}
	return responses
}
