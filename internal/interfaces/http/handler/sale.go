package handler

import (
	"github.com/gin-gonic/gin"

	apptrade "github.com/udyog/backend/internal/application/trade"
)

// SaleHandler exposes sale CRUD. Sales decrement stock and increase the
// customer's outstanding balance through the ledger.
type SaleHandler struct {
	BaseHandler
	sales *apptrade.SaleService
}

// NewSaleHandler creates a SaleHandler
func NewSaleHandler(sales *apptrade.SaleService) *SaleHandler {
	return &SaleHandler{sales: sales}
}

// RegisterRoutes registers sale endpoints
func (h *SaleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sales := rg.Group("/sales")
	sales.POST("", h.Create)
	sales.GET("", h.List)
	sales.GET("/:id", h.Get)
	sales.PUT("/:id", h.Update)
	sales.DELETE("/:id", h.Delete)
}

// Create records a sale, decrements stock and raises the customer balance
func (h *SaleHandler) Create(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}

	var req apptrade.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sale, err := h.sales.Create(c.Request.Context(), tenant, operatorID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sale)
}

// Get returns one sale with its items
func (h *SaleHandler) Get(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid sale id")
		return
	}

	sale, err := h.sales.Get(c.Request.Context(), tenant, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// List returns a page of sales
func (h *SaleHandler) List(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}

	var req apptrade.ListDocumentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.sales.List(c.Request.Context(), tenant, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(c, page)
}

// Update replaces a sale's items and re-posts its ledger effects
func (h *SaleHandler) Update(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid sale id")
		return
	}

	var req apptrade.UpdateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sale, err := h.sales.Update(c.Request.Context(), tenant, id, operatorID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// Delete removes a sale and reverses its ledger effects
func (h *SaleHandler) Delete(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid sale id")
		return
	}

	if err := h.sales.Delete(c.Request.Context(), tenant, id, operatorID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
