package process

import (
	"time"

	"github.com/google/uuid"

	"github.com/tradewiser/backend/internal/domain/process"
)

// AdvanceRequest moves the current stage forward. A pending stage is
// started; an in-progress stage is completed with optional notes.
type AdvanceRequest struct {
	Notes string `json:"notes" binding:"omitempty,max=500"`
}

// FailRequest fails the current stage with a reason
type FailRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// ListFilter represents filter options for process listing
type ListFilter struct {
	Kind     string `form:"kind" binding:"omitempty,oneof=deposit withdrawal"`
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

// Response represents a tracking process with its stage map
type Response struct {
	ID              uuid.UUID                          `json:"id"`
	Kind            process.Kind                       `json:"kind"`
	CommodityID     uuid.UUID                          `json:"commodity_id"`
	WarehouseID     uuid.UUID                          `json:"warehouse_id"`
	ReceiptID       *uuid.UUID                         `json:"receipt_id,omitempty"`
	Status          process.Status                     `json:"status"`
	CurrentStage    string                             `json:"current_stage,omitempty"`
	ProgressPercent int                                `json:"progress_percent"`
	StageMap        map[string]process.StageStatus     `json:"stage_map"`
	Stages          []StageResponse                    `json:"stages"`
	CreatedAt       time.Time                          `json:"created_at"`
	UpdatedAt       time.Time                          `json:"updated_at"`
}

// ToResponse maps a process aggregate to its API representation
func ToResponse(p *process.Process) Response {
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

	current := ""
	if stage := p.CurrentStage(); stage != nil {
		current = stage.Name
	}

	return Response{
		ID:              p.ID,
		Kind:            p.Kind,
		CommodityID:     p.CommodityID,
		WarehouseID:     p.WarehouseID,
		ReceiptID:       p.ReceiptID,
		Status:          p.Status,
		CurrentStage:    current,
		ProgressPercent: p.ProgressPercent(),
		StageMap:        p.StageMap(),
		Stages:          stages,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
