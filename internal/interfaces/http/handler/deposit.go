package handler

import (
	"github.com/gin-gonic/gin"

	depositapp "github.com/tradewiser/backend/internal/application/deposit"
)

// DepositHandler handles commodity intake HTTP requests
type DepositHandler struct {
	BaseHandler
	depositService *depositapp.Service
}

// NewDepositHandler creates a new deposit handler
func NewDepositHandler(depositService *depositapp.Service) *DepositHandler {
	return &DepositHandler{depositService: depositService}
}

// Create starts a deposit: it registers the commodity and opens the
// multi-stage intake process
func (h *DepositHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req depositapp.IntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.depositService.Intake(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Get returns a deposit process with its commodity
func (h *DepositHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid deposit ID")
		return
	}

	result, err := h.depositService.Get(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List returns the user's deposit processes
func (h *DepositHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter depositapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	items, total, err := h.depositService.List(c.Request.Context(), userID, filter)
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
