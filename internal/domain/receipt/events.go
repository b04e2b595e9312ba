package receipt

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradewiser/backend/internal/domain/shared"
)

const (
	EventIssued        = "receipt.issued"
	EventTransferred   = "receipt.transferred"
	EventStatusChanged = "receipt.status_changed"
)

// IssuedEvent is published when an eWR is issued
type IssuedEvent struct {
	shared.BaseDomainEvent
	Number      string          `json:"number"`
	OwnerID     uuid.UUID       `json:"owner_id"`
	CommodityID uuid.UUID       `json:"commodity_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	QuantityMT  decimal.Decimal `json:"quantity_mt"`
	Valuation   decimal.Decimal `json:"valuation"`
}

// NewIssuedEvent creates a receipt issued event
func NewIssuedEvent(r *WarehouseReceipt) *IssuedEvent {
	return &IssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventIssued, "WarehouseReceipt", r.ID),
		Number:          r.Number,
		OwnerID:         r.OwnerID,
		CommodityID:     r.CommodityID,
		WarehouseID:     r.WarehouseID,
		QuantityMT:      r.QuantityMT,
		Valuation:       r.Valuation,
	}
}

// TransferredEvent is published when a receipt changes owner
type TransferredEvent struct {
	shared.BaseDomainEvent
	Number      string    `json:"number"`
	FromOwnerID uuid.UUID `json:"from_owner_id"`
	ToOwnerID   uuid.UUID `json:"to_owner_id"`
}

// NewTransferredEvent creates a receipt transferred event
func NewTransferredEvent(r *WarehouseReceipt, from, to uuid.UUID) *TransferredEvent {
	return &TransferredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTransferred, "WarehouseReceipt", r.ID),
		Number:          r.Number,
		FromOwnerID:     from,
		ToOwnerID:       to,
	}
}

// StatusChangedEvent is published on collateralization, withdrawal
// and expiry transitions
type StatusChangedEvent struct {
	shared.BaseDomainEvent
	Number  string    `json:"number"`
	OwnerID uuid.UUID `json:"owner_id"`
	Status  Status    `json:"status"`
}

// NewStatusChangedEvent creates a receipt status changed event
func NewStatusChangedEvent(r *WarehouseReceipt) *StatusChangedEvent {
	return &StatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventStatusChanged, "WarehouseReceipt", r.ID),
		Number:          r.Number,
		OwnerID:         r.OwnerID,
		Status:          r.Status,
	}
}
