package handler

import (
	"github.com/gin-gonic/gin"

	appproduction "github.com/udyog/backend/internal/application/production"
)

// BatchHandler exposes production batch CRUD. Every create, update, and
// delete reconciles product stock through the ledger in one transaction.
type BatchHandler struct {
	BaseHandler
	batches *appproduction.BatchService
}

// NewBatchHandler creates a BatchHandler
func NewBatchHandler(batches *appproduction.BatchService) *BatchHandler {
	return &BatchHandler{batches: batches}
}

// RegisterRoutes registers batch endpoints
func (h *BatchHandler) RegisterRoutes(rg *gin.RouterGroup) {
	batches := rg.Group("/batches")
	batches.POST("", h.Create)
	batches.GET("", h.List)
	batches.GET("/:id", h.Get)
	batches.PUT("/:id", h.Update)
	batches.DELETE("/:id", h.Delete)
}

// Create creates a batch and applies its stock effects
func (h *BatchHandler) Create(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}

	var req appproduction.CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	batch, err := h.batches.Create(c.Request.Context(), tenant, operatorID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, batch)
}

// Get returns one batch with its line items
func (h *BatchHandler) Get(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid batch id")
		return
	}

	batch, err := h.batches.Get(c.Request.Context(), tenant, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batch)
}

// List returns a page of batches
func (h *BatchHandler) List(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}

	var req appproduction.ListBatchesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.batches.List(c.Request.Context(), tenant, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(c, page)
}

// Update replaces a batch and reconciles its stock effects
func (h *BatchHandler) Update(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid batch id")
		return
	}

	var req appproduction.UpdateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	batch, err := h.batches.Update(c.Request.Context(), tenant, id, operatorID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batch)
}

// Delete removes a batch and reverses its stock effects
func (h *BatchHandler) Delete(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid batch id")
		return
	}

	if err := h.batches.Delete(c.Request.Context(), tenant, id, operatorID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
