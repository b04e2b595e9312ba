package handler

import (
	"github.com/gin-gonic/gin"

	paymentapp "github.com/tradewiser/backend/internal/application/payment"
	warehouseapp "github.com/tradewiser/backend/internal/application/warehouse"
)

// WarehouseHandler handles warehouse management HTTP requests
type WarehouseHandler struct {
	BaseHandler
	warehouseService *warehouseapp.Service
	paymentService   *paymentapp.Service
}

// NewWarehouseHandler creates a new warehouse handler
func NewWarehouseHandler(warehouseService *warehouseapp.Service, paymentService *paymentapp.Service) *WarehouseHandler {
	return &WarehouseHandler{
		warehouseService: warehouseService,
		paymentService:   paymentService,
	}
}

// Create registers a new warehouse
func (h *WarehouseHandler) Create(c *gin.Context) {
	var req warehouseapp.CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.warehouseService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Get returns a warehouse by ID
func (h *WarehouseHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}

	result, err := h.warehouseService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List returns warehouses matching the query filters. When lat/lng are
// present the listing switches to a nearby search.
func (h *WarehouseHandler) List(c *gin.Context) {
	if c.Query("latitude") != "" || c.Query("longitude") != "" {
		h.nearby(c)
		return
	}

	var filter warehouseapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	items, total, err := h.warehouseService.List(c.Request.Context(), filter)
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

func (h *WarehouseHandler) nearby(c *gin.Context) {
	var query warehouseapp.NearbyQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.ValidationError(c, err)
		return
	}

	items, err := h.warehouseService.Nearby(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// Update modifies warehouse details
func (h *WarehouseHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}

	var req warehouseapp.UpdateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.warehouseService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Disable takes a warehouse out of service
func (h *WarehouseHandler) Disable(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}

	if _, err := h.warehouseService.Disable(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Enable returns a warehouse to service
func (h *WarehouseHandler) Enable(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}

	result, err := h.warehouseService.Enable(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// PayFees records a storage fee payment for a receipt held in this
// warehouse. Replays carrying the same Idempotency-Key return the
// original payment.
func (h *WarehouseHandler) PayFees(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	warehouseID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}

	var req paymentapp.PayFeesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	idempotencyKey := c.GetHeader("Idempotency-Key")

	result, err := h.paymentService.PayStorageFee(c.Request.Context(), userID, warehouseID, idempotencyKey, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}
