package handler

import (
	"github.com/gin-gonic/gin"

	appquotation "github.com/udyog/backend/internal/application/quotation"
)

// QuotationHandler exposes quotation CRUD and the status workflow.
// Quotations never touch stock or customer balances.
type QuotationHandler struct {
	BaseHandler
	quotations *appquotation.QuotationService
}

// NewQuotationHandler creates a QuotationHandler
func NewQuotationHandler(quotations *appquotation.QuotationService) *QuotationHandler {
	return &QuotationHandler{quotations: quotations}
}

// RegisterRoutes registers quotation endpoints
func (h *QuotationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	quotations := rg.Group("/quotations")
	quotations.POST("", h.Create)
	quotations.GET("", h.List)
	quotations.GET("/:id", h.Get)
	quotations.PUT("/:id", h.Update)
	quotations.PATCH("/:id/status", h.UpdateStatus)
	quotations.DELETE("/:id", h.Delete)
}

// Create creates a quotation in the Quote state
func (h *QuotationHandler) Create(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}

	var req appquotation.CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	quotation, err := h.quotations.Create(c.Request.Context(), tenant, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, quotation)
}

// Get returns one quotation with its lines and totals
func (h *QuotationHandler) Get(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid quotation id")
		return
	}

	quotation, err := h.quotations.Get(c.Request.Context(), tenant, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quotation)
}

// List returns a page of quotations
func (h *QuotationHandler) List(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}

	var req appquotation.ListQuotationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.quotations.List(c.Request.Context(), tenant, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(c, page)
}

// Update replaces a quotation's lines and reprices it
func (h *QuotationHandler) Update(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid quotation id")
		return
	}

	var req appquotation.UpdateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	quotation, err := h.quotations.Update(c.Request.Context(), tenant, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quotation)
}

// UpdateStatus moves a quotation through its status machine
func (h *QuotationHandler) UpdateStatus(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid quotation id")
		return
	}

	var req appquotation.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	quotation, err := h.quotations.UpdateStatus(c.Request.Context(), tenant, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quotation)
}

// Delete removes a quotation
func (h *QuotationHandler) Delete(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid quotation id")
		return
	}

	if err := h.quotations.Delete(c.Request.Context(), tenant, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
