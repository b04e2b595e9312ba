package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	receiptapp "github.com/tradewiser/backend/internal/application/receipt"
)

// IssueReceiptRequest asks for an eWR over an active commodity
type IssueReceiptRequest struct {
	CommodityID uuid.UUID `json:"commodity_id" binding:"required"`
}

// ReceiptHandler handles warehouse receipt HTTP requests
type ReceiptHandler struct {
	BaseHandler
	receiptService *receiptapp.Service
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *receiptapp.Service) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// Get returns a receipt by ID
func (h *ReceiptHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid receipt ID")
		return
	}

	result, err := h.receiptService.Get(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List returns the user's receipts
func (h *ReceiptHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter receiptapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	items, total, err := h.receiptService.List(c.Request.Context(), userID, filter)
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

// Issue issues an eWR for an active commodity. Green channel deposits
// get theirs automatically; this endpoint covers orange channel
// deposits after manual verification.
func (h *ReceiptHandler) Issue(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req IssueReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.receiptService.Issue(c.Request.Context(), userID, req.CommodityID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Verify resolves a public verification code, typically scanned from
// the QR printed on the receipt. No authentication required.
func (h *ReceiptHandler) Verify(c *gin.Context) {
	code := c.Param("code")

	result, err := h.receiptService.VerifyByCode(c.Request.Context(), code)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Transfer moves a receipt and its commodity to another user
func (h *ReceiptHandler) Transfer(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid receipt ID")
		return
	}

	var req receiptapp.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.receiptService.Transfer(c.Request.Context(), userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Withdraw begins the withdrawal process for a receipt
func (h *ReceiptHandler) Withdraw(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid receipt ID")
		return
	}

	result, err := h.receiptService.Withdraw(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RequestUpload returns a presigned upload URL for a new attachment
func (h *ReceiptHandler) RequestUpload(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid receipt ID")
		return
	}

	var req receiptapp.RequestUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.receiptService.RequestUpload(c.Request.Context(), userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// ConfirmUpload records an attachment after the client finished the
// presigned upload
func (h *ReceiptHandler) ConfirmUpload(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid receipt ID")
		return
	}

	var req receiptapp.ConfirmUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.receiptService.ConfirmUpload(c.Request.Context(), userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Download returns a presigned download URL for an attachment
func (h *ReceiptHandler) Download(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid receipt ID")
		return
	}

	attachmentID, ok := parseIDParam(c, "key")
	if !ok {
		h.BadRequest(c, "Invalid attachment key")
		return
	}

	result, err := h.receiptService.DownloadURL(c.Request.Context(), userID, id, attachmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
