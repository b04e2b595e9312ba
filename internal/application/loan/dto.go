package loan

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradewiser/backend/internal/domain/loan"
)

// ApplyRequest applies for a loan against a receipt
type ApplyRequest struct {
	ReceiptID   uuid.UUID       `json:"receipt_id" binding:"required"`
	Principal   decimal.Decimal `json:"principal" binding:"required"`
	RatePercent decimal.Decimal `json:"rate_percent" binding:"required"`
	TermMonths  int             `json:"term_months" binding:"required,min=1,max=60"`
}

// RepayRequest repays part or all of an active loan
type RepayRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Method string          `json:"method" binding:"required,oneof=upi bank_transfer wallet"`
}

// ListFilter represents filter options for loan listing
type ListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending active repaid defaulted"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Response represents a loan in API responses
type Response struct {
	ID          uuid.UUID       `json:"id"`
	BorrowerID  uuid.UUID       `json:"borrower_id"`
	ReceiptID   uuid.UUID       `json:"receipt_id"`
	Principal   decimal.Decimal `json:"principal"`
	RatePercent decimal.Decimal `json:"rate_percent"`
	TermMonths  int             `json:"term_months"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Status      loan.Status     `json:"status"`
	DisbursedAt *time.Time      `json:"disbursed_at,omitempty"`
	DueAt       *time.Time      `json:"due_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// RepayResult carries the post-repayment state
type RepayResult struct {
	Loan      Response  `json:"loan"`
	Settled   bool      `json:"settled"`
	PaymentID uuid.UUID `json:"payment_id"`
}

// ToResponse maps a loan aggregate to its API representation
func ToResponse(l *loan.Loan) Response {
	resp := Response{
		ID:          l.ID,
		BorrowerID:  l.OwnerID,
		ReceiptID:   l.ReceiptID,
		Principal:   l.Principal,
		RatePercent: l.RatePercent,
		TermMonths:  l.TermMonths,
		Outstanding: l.Outstanding,
		Status:      l.Status,
		DisbursedAt: l.DisbursedAt,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
	if l.DisbursedAt != nil {
		due := l.DueAt()
		resp.DueAt = &due
	}
	return resp
}
