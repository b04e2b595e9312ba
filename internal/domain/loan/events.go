package loan

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradewiser/backend/internal/domain/shared"
)

const (
	EventApplied   = "loan.applied"
	EventDisbursed = "loan.disbursed"
	EventRepaid    = "loan.repaid"
)

// AppliedEvent is published when a borrower applies for a loan
type AppliedEvent struct {
	shared.BaseDomainEvent
	BorrowerID uuid.UUID       `json:"borrower_id"`
	ReceiptID  uuid.UUID       `json:"receipt_id"`
	Principal  decimal.Decimal `json:"principal"`
}

// NewAppliedEvent creates a loan applied event
func NewAppliedEvent(l *Loan) *AppliedEvent {
	return &AppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventApplied, "Loan", l.ID),
		BorrowerID:      l.OwnerID,
		ReceiptID:       l.ReceiptID,
		Principal:       l.Principal,
	}
}

// DisbursedEvent is published when a loan is approved and disbursed
type DisbursedEvent struct {
	shared.BaseDomainEvent
	BorrowerID uuid.UUID       `json:"borrower_id"`
	Principal  decimal.Decimal `json:"principal"`
}

// NewDisbursedEvent creates a loan disbursed event
func NewDisbursedEvent(l *Loan) *DisbursedEvent {
	return &DisbursedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventDisbursed, "Loan", l.ID),
		BorrowerID:      l.OwnerID,
		Principal:       l.Principal,
	}
}

// RepaidEvent is published on every repayment. Settled is true on the
// final repayment that releases the collateral.
type RepaidEvent struct {
	shared.BaseDomainEvent
	BorrowerID  uuid.UUID       `json:"borrower_id"`
	ReceiptID   uuid.UUID       `json:"receipt_id"`
	Amount      decimal.Decimal `json:"amount"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Settled     bool            `json:"settled"`
}

// NewRepaidEvent creates a loan repaid event
func NewRepaidEvent(l *Loan, amount decimal.Decimal, settled bool) *RepaidEvent {
	return &RepaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventRepaid, "Loan", l.ID),
		BorrowerID:      l.OwnerID,
		ReceiptID:       l.ReceiptID,
		Amount:          amount,
		Outstanding:     l.Outstanding,
		Settled:         settled,
	}
}
