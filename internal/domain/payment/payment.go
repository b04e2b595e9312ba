package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradewiser/backend/internal/domain/shared"
)

// Kind represents what a payment is for
type Kind string

const (
	KindStorageFee    Kind = "storage_fee"
	KindLoanRepayment Kind = "loan_repayment"
	KindWithdrawalFee Kind = "withdrawal_fee"
)

// Method represents the payment instrument
type Method string

const (
	MethodUPI          Method = "upi"
	MethodBankTransfer Method = "bank_transfer"
	MethodWallet       Method = "wallet"
)

// Status represents the payment status
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Payment is the aggregate root for money movements recorded by the
// fee and repayment endpoints
type Payment struct {
	shared.OwnedAggregateRoot
	Kind        Kind            `gorm:"type:varchar(20);not null;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(16,2);not null"`
	Method      Method          `gorm:"type:varchar(20);not null"`
	ReferenceID uuid.UUID       `gorm:"type:uuid;not null;index"` // warehouse, loan or receipt id
	Status      Status          `gorm:"type:varchar(20);not null;default:'pending';index"`
	ExternalRef string          `gorm:"type:varchar(100)"`
	CompletedAt *time.Time
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// New records a pending payment
func New(payerID uuid.UUID, kind Kind, method Method, referenceID uuid.UUID, amount decimal.Decimal) (*Payment, error) {
	if err := validateKind(kind); err != nil {
		return nil, err
	}
	if err := validateMethod(method); err != nil {
		return nil, err
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if referenceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Payment reference is required")
	}

	return &Payment{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(payerID),
		Kind:               kind,
		Amount:             amount,
		Method:             method,
		ReferenceID:        referenceID,
		Status:             StatusPending,
	}, nil
}

// Complete marks the payment settled, keeping the gateway reference
func (p *Payment) Complete(externalRef string) error {
	if p.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only a pending payment can complete")
	}

	now := time.Now()
	p.Status = StatusCompleted
	p.ExternalRef = externalRef
	p.CompletedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()
	p.AddDomainEvent(NewCompletedEvent(p))

	return nil
}

// Fail marks the payment failed
func (p *Payment) Fail(reason string) error {
	if p.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only a pending payment can fail")
	}

	p.Status = StatusFailed
	p.ExternalRef = reason
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

func validateKind(kind Kind) error {
	switch kind {
	case KindStorageFee, KindLoanRepayment, KindWithdrawalFee:
		return nil
	default:
		return shared.NewDomainError("INVALID_KIND", "Invalid payment kind")
	}
}

func validateMethod(method Method) error {
	switch method {
	case MethodUPI, MethodBankTransfer, MethodWallet:
		return nil
	default:
		return shared.NewDomainError("INVALID_METHOD", "Invalid payment method")
	}
}
