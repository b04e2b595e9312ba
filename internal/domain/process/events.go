package process

import (
	"github.com/google/uuid"
	"github.com/tradewiser/backend/internal/domain/shared"
)

const (
	EventStarted      = "process.started"
	EventStageChanged = "process.stage_changed"
	EventCompleted    = "process.completed"
)

// StartedEvent is published when a tracking process is created
type StartedEvent struct {
	shared.BaseDomainEvent
	Kind        Kind      `json:"kind"`
	OwnerID     uuid.UUID `json:"owner_id"`
	CommodityID uuid.UUID `json:"commodity_id"`
	WarehouseID uuid.UUID `json:"warehouse_id"`
}

// NewStartedEvent creates a process started event
func NewStartedEvent(p *Process) *StartedEvent {
	return &StartedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventStarted, "Process", p.ID),
		Kind:            p.Kind,
		OwnerID:         p.OwnerID,
		CommodityID:     p.CommodityID,
		WarehouseID:     p.WarehouseID,
	}
}

// StageChangedEvent is published on every stage status change. The
// websocket handler forwards it to connected clients.
type StageChangedEvent struct {
	shared.BaseDomainEvent
	Kind        Kind        `json:"kind"`
	OwnerID     uuid.UUID   `json:"owner_id"`
	StageName   string      `json:"stage_name"`
	StageStatus StageStatus `json:"stage_status"`
	Progress    int         `json:"progress"`
}

// NewStageChangedEvent creates a stage changed event
func NewStageChangedEvent(p *Process, s *Stage) *StageChangedEvent {
	return &StageChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventStageChanged, "Process", p.ID),
		Kind:            p.Kind,
		OwnerID:         p.OwnerID,
		StageName:       s.Name,
		StageStatus:     s.Status,
		Progress:        p.ProgressPercent(),
	}
}

// CompletedEvent is published when the final stage completes. For
// deposit processes it triggers eWR issuance.
type CompletedEvent struct {
	shared.BaseDomainEvent
	Kind        Kind       `json:"kind"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	CommodityID uuid.UUID  `json:"commodity_id"`
	WarehouseID uuid.UUID  `json:"warehouse_id"`
	ReceiptID   *uuid.UUID `json:"receipt_id,omitempty"`
}

// NewCompletedEvent creates a process completed event
func NewCompletedEvent(p *Process) *CompletedEvent {
	return &CompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventCompleted, "Process", p.ID),
		Kind:            p.Kind,
		OwnerID:         p.OwnerID,
		CommodityID:     p.CommodityID,
		WarehouseID:     p.WarehouseID,
		ReceiptID:       p.ReceiptID,
	}
}
