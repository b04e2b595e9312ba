package loan

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradewiser/backend/internal/domain/shared"
)

// Status represents the lifecycle status of a loan
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusRepaid    Status = "repaid"
	StatusDefaulted Status = "defaulted"
)

// MarginPercent caps the principal at this share of the collateral
// receipt's valuation.
var MarginPercent = decimal.NewFromInt(80)

// Loan is the aggregate root for a receipt-collateralized loan
type Loan struct {
	shared.OwnedAggregateRoot
	ReceiptID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Principal    decimal.Decimal `gorm:"type:decimal(16,2);not null"`
	RatePercent  decimal.Decimal `gorm:"type:decimal(6,3);not null"` // annual interest rate
	TermMonths   int             `gorm:"not null"`
	Outstanding  decimal.Decimal `gorm:"type:decimal(16,2);not null"`
	Status       Status          `gorm:"type:varchar(20);not null;default:'pending';index"`
	DisbursedAt  *time.Time
	LastAccrual  *time.Time
}

// TableName returns the table name for GORM
func (Loan) TableName() string {
	return "loans"
}

// MaxPrincipal returns the largest principal a receipt valuation supports
func MaxPrincipal(valuation decimal.Decimal) decimal.Decimal {
	return valuation.Mul(MarginPercent).Div(decimal.NewFromInt(100)).Round(2)
}

// Apply creates a pending loan against a receipt. The caller must have
// verified that the borrower owns the receipt and collateralized it.
func Apply(borrowerID, receiptID uuid.UUID, principal, receiptValuation, ratePercent decimal.Decimal, termMonths int) (*Loan, error) {
	if principal.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_PRINCIPAL", "Loan principal must be positive")
	}
	if principal.GreaterThan(MaxPrincipal(receiptValuation)) {
		return nil, shared.ErrLoanLimitExceeded
	}
	if ratePercent.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RATE", "Interest rate cannot be negative")
	}
	if termMonths < 1 || termMonths > 60 {
		return nil, shared.NewDomainError("INVALID_TERM", "Loan term must be between 1 and 60 months")
	}

	l := &Loan{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(borrowerID),
		ReceiptID:          receiptID,
		Principal:          principal,
		RatePercent:        ratePercent,
		TermMonths:         termMonths,
		Outstanding:        principal,
		Status:             StatusPending,
	}

	l.AddDomainEvent(NewAppliedEvent(l))

	return l, nil
}

// Disburse approves and activates a pending loan
func (l *Loan) Disburse() error {
	if l.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only a pending loan can be disbursed")
	}

	now := time.Now()
	l.Status = StatusActive
	l.DisbursedAt = &now
	l.LastAccrual = &now
	l.UpdatedAt = now
	l.IncrementVersion()
	l.AddDomainEvent(NewDisbursedEvent(l))

	return nil
}

// Repay applies a repayment. Returns true when the loan is fully
// repaid, which releases the collateral receipt.
func (l *Loan) Repay(amount decimal.Decimal) (bool, error) {
	if l.Status != StatusActive {
		return false, shared.NewDomainError("INVALID_STATE", "Only an active loan can be repaid")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return false, shared.NewDomainError("INVALID_AMOUNT", "Repayment amount must be positive")
	}
	if amount.GreaterThan(l.Outstanding) {
		return false, shared.ErrOverpayment
	}

	l.Outstanding = l.Outstanding.Sub(amount)
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	settled := l.Outstanding.IsZero()
	if settled {
		l.Status = StatusRepaid
	}
	l.AddDomainEvent(NewRepaidEvent(l, amount, settled))

	return settled, nil
}

// AccrueInterest adds simple interest on the outstanding balance for
// the time elapsed since the last accrual.
func (l *Loan) AccrueInterest(now time.Time) decimal.Decimal {
	if l.Status != StatusActive || l.LastAccrual == nil {
		return decimal.Zero
	}

	elapsed := now.Sub(*l.LastAccrual)
	if elapsed <= 0 {
		return decimal.Zero
	}

	years := decimal.NewFromFloat(elapsed.Hours() / (24 * 365))
	interest := l.Outstanding.Mul(l.RatePercent).Div(decimal.NewFromInt(100)).Mul(years).Round(2)
	if interest.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	l.Outstanding = l.Outstanding.Add(interest)
	l.LastAccrual = &now
	l.UpdatedAt = now
	l.IncrementVersion()

	return interest
}

// MarkDefaulted flags an active loan past its term as defaulted
func (l *Loan) MarkDefaulted() error {
	if l.Status != StatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only an active loan can default")
	}

	l.Status = StatusDefaulted
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// DueAt returns the loan maturity date, zero for undisbursed loans
func (l *Loan) DueAt() time.Time {
	if l.DisbursedAt == nil {
		return time.Time{}
	}
	return l.DisbursedAt.AddDate(0, l.TermMonths, 0)
}
