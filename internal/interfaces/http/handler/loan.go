package handler

import (
	"github.com/gin-gonic/gin"

	loanapp "github.com/tradewiser/backend/internal/application/loan"
)

// LoanHandler handles receipt-collateralized loan HTTP requests
type LoanHandler struct {
	BaseHandler
	loanService *loanapp.Service
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *loanapp.Service) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// Apply applies for a loan against an active receipt
func (h *LoanHandler) Apply(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req loanapp.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.loanService.Apply(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Get returns a loan by ID
func (h *LoanHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid loan ID")
		return
	}

	result, err := h.loanService.Get(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List returns the user's loans
func (h *LoanHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter loanapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	items, total, err := h.loanService.List(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, items, total, page, pageSize)
}

// Approve disburses a pending loan. Restricted to operator and admin
// roles by the router.
func (h *LoanHandler) Approve(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid loan ID")
		return
	}

	result, err := h.loanService.Approve(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Repay applies a repayment to an active loan. Replays carrying the
// same Idempotency-Key return the original result.
func (h *LoanHandler) Repay(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid loan ID")
		return
	}

	var req loanapp.RepayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	idempotencyKey := c.GetHeader("Idempotency-Key")
	result, err := h.loanService.Repay(c.Request.Context(), userID, id, idempotencyKey, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
