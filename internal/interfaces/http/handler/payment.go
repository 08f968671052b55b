package handler

import (
	"github.com/gin-gonic/gin"

	apppartner "github.com/udyog/backend/internal/application/partner"
)

// PaymentHandler records and reverses customer settlements. Payments have no
// update: correcting one means deleting it (which reverses its balance
// effect) and recording a new one.
type PaymentHandler struct {
	BaseHandler
	payments *apppartner.PaymentService
}

// NewPaymentHandler creates a PaymentHandler
func NewPaymentHandler(payments *apppartner.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// RegisterRoutes registers payment endpoints
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	payments.POST("", h.Create)
	payments.GET("/:id", h.Get)
	payments.DELETE("/:id", h.Delete)
}

// Create records a payment and applies its balance effect
func (h *PaymentHandler) Create(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}

	var req apppartner.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	payment, err := h.payments.Create(c.Request.Context(), tenant, operatorID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payment)
}

// Get returns one payment record
func (h *PaymentHandler) Get(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid payment id")
		return
	}

	payment, err := h.payments.Get(c.Request.Context(), tenant, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// Delete removes a payment and reverses its balance effect
func (h *PaymentHandler) Delete(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid payment id")
		return
	}

	if err := h.payments.Delete(c.Request.Context(), tenant, id, operatorID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
