package payment

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradewiser/backend/internal/domain/shared"
)

const (
	EventCompleted = "payment.completed"
)

// CompletedEvent is published when a payment settles
type CompletedEvent struct {
	shared.BaseDomainEvent
	PayerID     uuid.UUID       `json:"payer_id"`
	Kind        Kind            `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	ReferenceID uuid.UUID       `json:"reference_id"`
}

// NewCompletedEvent creates a payment completed event
func NewCompletedEvent(p *Payment) *CompletedEvent {
	return &CompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventCompleted, "Payment", p.ID),
		PayerID:         p.OwnerID,
		Kind:            p.Kind,
		Amount:          p.Amount,
		ReferenceID:     p.ReferenceID,
	}
}
