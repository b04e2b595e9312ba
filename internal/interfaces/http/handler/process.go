package handler

import (
	"github.com/gin-gonic/gin"

	processapp "github.com/tradewiser/backend/internal/application/process"
)

// ProcessHandler handles deposit and withdrawal process tracking
type ProcessHandler struct {
	BaseHandler
	processService *processapp.Service
}

// NewProcessHandler creates a new process handler
func NewProcessHandler(processService *processapp.Service) *ProcessHandler {
	return &ProcessHandler{processService: processService}
}

// Get returns a process with its stage map
func (h *ProcessHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid process ID")
		return
	}

	result, err := h.processService.Get(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListActive returns the user's processes that are still running
func (h *ProcessHandler) ListActive(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter processapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	items, err := h.processService.ListActive(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// Advance moves the current stage forward: a pending stage starts, an
// in-progress stage completes
func (h *ProcessHandler) Advance(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid process ID")
		return
	}

	var req processapp.AdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.processService.Advance(c.Request.Context(), userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Fail marks the current stage failed
func (h *ProcessHandler) Fail(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid process ID")
		return
	}

	var req processapp.FailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.processService.Fail(c.Request.Context(), userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Restart resumes a failed process from its failed stage
func (h *ProcessHandler) Restart(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid process ID")
		return
	}

	result, err := h.processService.Restart(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
