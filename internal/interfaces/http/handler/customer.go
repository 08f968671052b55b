package handler

import (
	"github.com/gin-gonic/gin"

	appledger "github.com/udyog/backend/internal/application/ledger"
	apppartner "github.com/udyog/backend/internal/application/partner"
)

// CustomerHandler exposes customer CRUD, the customer balance ledger, and
// the customer's payment records
type CustomerHandler struct {
	BaseHandler
	customers *apppartner.CustomerService
	payments  *apppartner.PaymentService
	history   *appledger.HistoryService
}

// NewCustomerHandler creates a CustomerHandler
func NewCustomerHandler(customers *apppartner.CustomerService, payments *apppartner.PaymentService, history *appledger.HistoryService) *CustomerHandler {
	return &CustomerHandler{customers: customers, payments: payments, history: history}
}

// RegisterRoutes registers customer endpoints
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/customers")
	customers.POST("", h.Create)
	customers.GET("", h.List)
	customers.GET("/:id", h.Get)
	customers.PUT("/:id", h.Update)
	customers.DELETE("/:id", h.Delete)
	customers.GET("/:id/ledger", h.Ledger)
	customers.GET("/:id/payments", h.ListPayments)
}

// Create creates a customer
func (h *CustomerHandler) Create(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}

	var req apppartner.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer, err := h.customers.Create(c.Request.Context(), tenant, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// Get returns one customer
func (h *CustomerHandler) Get(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid customer id")
		return
	}

	customer, err := h.customers.Get(c.Request.Context(), tenant, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// List returns a page of customers
func (h *CustomerHandler) List(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}

	var req apppartner.ListCustomersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.customers.List(c.Request.Context(), tenant, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(c, page)
}

// Update updates a customer's identity fields
func (h *CustomerHandler) Update(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid customer id")
		return
	}

	var req apppartner.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer, err := h.customers.Update(c.Request.Context(), tenant, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Delete removes a customer
func (h *CustomerHandler) Delete(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid customer id")
		return
	}

	if err := h.customers.Delete(c.Request.Context(), tenant, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Ledger returns the customer's balance movement history
func (h *CustomerHandler) Ledger(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid customer id")
		return
	}

	var req appledger.ListEntriesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.history.ListForCustomer(c.Request.Context(), tenant, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(c, page)
}

// ListPayments returns the customer's payment records
func (h *CustomerHandler) ListPayments(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid customer id")
		return
	}

	var req apppartner.ListPaymentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.payments.ListByCustomer(c.Request.Context(), tenant, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(c, page)
}
