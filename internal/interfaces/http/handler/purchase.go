package handler

import (
	"github.com/gin-gonic/gin"

	apptrade "github.com/udyog/backend/internal/application/trade"
)

// PurchaseHandler exposes purchase CRUD. Every mutation also posts the
// matching stock ledger entries.
type PurchaseHandler struct {
	BaseHandler
	purchases *apptrade.PurchaseService
}

// NewPurchaseHandler creates a PurchaseHandler
func NewPurchaseHandler(purchases *apptrade.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchases: purchases}
}

// RegisterRoutes registers purchase endpoints
func (h *PurchaseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	purchases := rg.Group("/purchases")
	purchases.POST("", h.Create)
	purchases.GET("", h.List)
	purchases.GET("/:id", h.Get)
	purchases.PUT("/:id", h.Update)
	purchases.DELETE("/:id", h.Delete)
}

// Create records a purchase and increments stock for each item
func (h *PurchaseHandler) Create(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}

	var req apptrade.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	purchase, err := h.purchases.Create(c.Request.Context(), tenant, operatorID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, purchase)
}

// Get returns one purchase with its items
func (h *PurchaseHandler) Get(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid purchase id")
		return
	}

	purchase, err := h.purchases.Get(c.Request.Context(), tenant, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, purchase)
}

// List returns a page of purchases
func (h *PurchaseHandler) List(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}

	var req apptrade.ListDocumentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.purchases.List(c.Request.Context(), tenant, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(c, page)
}

// Update replaces a purchase's items and re-posts its stock effects
func (h *PurchaseHandler) Update(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid purchase id")
		return
	}

	var req apptrade.UpdatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	purchase, err := h.purchases.Update(c.Request.Context(), tenant, id, operatorID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, purchase)
}

// Delete removes a purchase and reverses its stock effects
func (h *PurchaseHandler) Delete(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid purchase id")
		return
	}

	if err := h.purchases.Delete(c.Request.Context(), tenant, id, operatorID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
