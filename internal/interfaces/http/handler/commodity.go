package handler

import (
	"github.com/gin-gonic/gin"

	commodityapp "github.com/tradewiser/backend/internal/application/commodity"
)

// CommodityHandler handles commodity and sack HTTP requests
type CommodityHandler struct {
	BaseHandler
	commodityService *commodityapp.Service
}

// NewCommodityHandler creates a new commodity handler
func NewCommodityHandler(commodityService *commodityapp.Service) *CommodityHandler {
	return &CommodityHandler{commodityService: commodityService}
}

// Get returns a commodity by ID
func (h *CommodityHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid commodity ID")
		return
	}

	result, err := h.commodityService.Get(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List returns the user's commodities
func (h *CommodityHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter commodityapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	items, total, err := h.commodityService.List(c.Request.Context(), userID, filter)
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

// Split divides an active commodity into equally sized sacks
func (h *CommodityHandler) Split(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid commodity ID")
		return
	}

	var req commodityapp.SplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	sacks, err := h.commodityService.Split(c.Request.Context(), userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, sacks)
}

// ListSacks returns the sacks of a commodity
func (h *CommodityHandler) ListSacks(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid commodity ID")
		return
	}

	sacks, err := h.commodityService.ListSacks(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sacks)
}

// GetSack returns a single sack by ID
func (h *CommodityHandler) GetSack(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid sack ID")
		return
	}

	result, err := h.commodityService.GetSack(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// TransferSack moves a sack to another user
func (h *CommodityHandler) TransferSack(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid sack ID")
		return
	}

	var req commodityapp.TransferSackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.commodityService.TransferSack(c.Request.Context(), userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
