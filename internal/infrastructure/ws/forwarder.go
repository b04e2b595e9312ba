package ws

import (
	"context"

	"github.com/google/uuid"

	"github.com/tradewiser/backend/internal/domain/loan"
	"github.com/tradewiser/backend/internal/domain/payment"
	"github.com/tradewiser/backend/internal/domain/process"
	"github.com/tradewiser/backend/internal/domain/receipt"
	"github.com/tradewiser/backend/internal/domain/shared"
)

// EventForwarder subscribes to domain events and pushes them to the
// websocket hub. Events that carry an owner are delivered only to that
// user's connections; a receipt transfer reaches both parties.
type EventForwarder struct {
	hub *Hub
}

// NewEventForwarder creates a forwarder bound to a hub
func NewEventForwarder(hub *Hub) *EventForwarder {
	return &EventForwarder{hub: hub}
}

// EventTypes returns the event types the forwarder relays
func (f *EventForwarder) EventTypes() []string {
	return []string{
		process.EventStarted,
		process.EventStageChanged,
		process.EventCompleted,
		receipt.EventIssued,
		receipt.EventTransferred,
		receipt.EventStatusChanged,
		loan.EventApplied,
		loan.EventDisbursed,
		loan.EventRepaid,
		payment.EventCompleted,
	}
}

// Handle relays a domain event to the hub
func (f *EventForwarder) Handle(_ context.Context, evt shared.DomainEvent) error {
	switch e := evt.(type) {
	case *process.StartedEvent:
		f.hub.Notify(e.OwnerID, e.EventType(), e)
	case *process.StageChangedEvent:
		f.hub.Notify(e.OwnerID, e.EventType(), e)
	case *process.CompletedEvent:
		f.hub.Notify(e.OwnerID, e.EventType(), e)
	case *receipt.IssuedEvent:
		f.hub.Notify(e.OwnerID, e.EventType(), e)
	case *receipt.TransferredEvent:
		f.hub.Notify(e.FromOwnerID, e.EventType(), e)
		f.hub.Notify(e.ToOwnerID, e.EventType(), e)
	case *receipt.StatusChangedEvent:
		f.hub.Notify(e.OwnerID, e.EventType(), e)
	case *loan.AppliedEvent:
		f.hub.Notify(e.BorrowerID, e.EventType(), e)
	case *loan.DisbursedEvent:
		f.hub.Notify(e.BorrowerID, e.EventType(), e)
	case *loan.RepaidEvent:
		f.hub.Notify(e.BorrowerID, e.EventType(), e)
	case *payment.CompletedEvent:
		f.hub.Notify(e.PayerID, e.EventType(), e)
	default:
		f.hub.Notify(uuid.Nil, evt.EventType(), evt)
	}
	return nil
}

// Ensure EventForwarder implements EventHandler
var _ shared.EventHandler = (*EventForwarder)(nil)
