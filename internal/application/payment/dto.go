package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradewiser/backend/internal/domain/payment"
)

// PayFeesRequest pays the monthly storage fee for a receipt held in a
// warehouse
type PayFeesRequest struct {
	ReceiptID uuid.UUID `json:"receipt_id" binding:"required"`
	Months    int       `json:"months" binding:"omitempty,min=1,max=12"`
	Method    string    `json:"method" binding:"required,oneof=upi bank_transfer wallet"`
}

// ListFilter represents filter options for payment listing
type ListFilter struct {
	Kind     string `form:"kind" binding:"omitempty,oneof=storage_fee loan_repayment withdrawal_fee"`
	Status   string `form:"status" binding:"omitempty,oneof=pending completed failed"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Response represents a payment in API responses
type Response struct {
	ID          uuid.UUID       `json:"id"`
	PayerID     uuid.UUID       `json:"payer_id"`
	Kind        payment.Kind    `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Method      payment.Method  `json:"method"`
	ReferenceID uuid.UUID       `json:"reference_id"`
	Status      payment.Status  `json:"status"`
	ExternalRef string          `json:"external_ref,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToResponse maps a payment aggregate to its API representation
func ToResponse(p *payment.Payment) Response {
	return Response{
		ID:          p.ID,
		PayerID:     p.OwnerID,
		Kind:        p.Kind,
		Amount:      p.Amount,
		Method:      p.Method,
		ReferenceID: p.ReferenceID,
		Status:      p.Status,
		ExternalRef: p.ExternalRef,
		CompletedAt: p.CompletedAt,
		CreatedAt:   p.CreatedAt,
	}
}
