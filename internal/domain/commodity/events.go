package commodity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradewiser/backend/internal/domain/shared"
)

const (
	EventDeposited       = "commodity.deposited"
	EventRevalued        = "commodity.revalued"
	EventTransferred     = "commodity.transferred"
	EventSackTransferred = "commodity.sack_transferred"
)

// RevaluedEvent is published when the market price feed changes a
// commodity's valuation
type RevaluedEvent struct {
	shared.BaseDomainEvent
	OwnerID    uuid.UUID       `json:"owner_id"`
	Category   Category        `json:"category"`
	PricePerMT decimal.Decimal `json:"price_per_mt"`
	Valuation  decimal.Decimal `json:"valuation"`
}

// NewRevaluedEvent creates a commodity revalued event
func NewRevaluedEvent(c *Commodity) *RevaluedEvent {
	return &RevaluedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventRevalued, "Commodity", c.ID),
		OwnerID:         c.OwnerID,
		Category:        c.Category,
		PricePerMT:      c.PricePerMT,
		Valuation:       c.Valuation,
	}
}

// DepositedEvent is published when a deposit intake creates a commodity
type DepositedEvent struct {
	shared.BaseDomainEvent
	OwnerID     uuid.UUID       `json:"owner_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	Name        string          `json:"name"`
	Category    Category        `json:"category"`
	QuantityMT  decimal.Decimal `json:"quantity_mt"`
}

// NewDepositedEvent creates a commodity deposited event
func NewDepositedEvent(c *Commodity) *DepositedEvent {
	return &DepositedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventDeposited, "Commodity", c.ID),
		OwnerID:         c.OwnerID,
		WarehouseID:     c.WarehouseID,
		Name:            c.Name,
		Category:        c.Category,
		QuantityMT:      c.QuantityMT,
	}
}

// TransferredEvent is published when a commodity lot changes owner
type TransferredEvent struct {
	shared.BaseDomainEvent
	FromOwnerID uuid.UUID `json:"from_owner_id"`
	ToOwnerID   uuid.UUID `json:"to_owner_id"`
}

// NewTransferredEvent creates a commodity transferred event
func NewTransferredEvent(c *Commodity, from, to uuid.UUID) *TransferredEvent {
	return &TransferredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTransferred, "Commodity", c.ID),
		FromOwnerID:     from,
		ToOwnerID:       to,
	}
}

// SackTransferredEvent is published when a single sack changes owner
type SackTransferredEvent struct {
	shared.BaseDomainEvent
	CommodityID uuid.UUID `json:"commodity_id"`
	SackCode    string    `json:"sack_code"`
	FromOwnerID uuid.UUID `json:"from_owner_id"`
	ToOwnerID   uuid.UUID `json:"to_owner_id"`
}

// NewSackTransferredEvent creates a sack transferred event
func NewSackTransferredEvent(s *Sack, from, to uuid.UUID) *SackTransferredEvent {
	return &SackTransferredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventSackTransferred, "Sack", s.ID),
		CommodityID:     s.CommodityID,
		SackCode:        s.Code,
		FromOwnerID:     from,
		ToOwnerID:       to,
	}
}
