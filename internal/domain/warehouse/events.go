package warehouse

import (
	"github.com/tradewiser/backend/internal/domain/shared"
)

const (
	EventCreated  = "warehouse.created"
	EventDisabled = "warehouse.disabled"
)

// CreatedEvent is published when a warehouse is registered
type CreatedEvent struct {
	shared.BaseDomainEvent
	Code    string  `json:"code"`
	Name    string  `json:"name"`
	Type    Type    `json:"type"`
	Channel Channel `json:"channel"`
}

// NewCreatedEvent creates a warehouse created event
func NewCreatedEvent(w *Warehouse) *CreatedEvent {
	return &CreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventCreated, "Warehouse", w.ID),
		Code:            w.Code,
		Name:            w.Name,
		Type:            w.Type,
		Channel:         w.Channel,
	}
}

// DisabledEvent is published when a warehouse is taken out of service
type DisabledEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewDisabledEvent creates a warehouse disabled event
func NewDisabledEvent(w *Warehouse) *DisabledEvent {
	return &DisabledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventDisabled, "Warehouse", w.ID),
		Code:            w.Code,
		Name:            w.Name,
	}
}
