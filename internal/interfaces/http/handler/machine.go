package handler

import (
	"github.com/gin-gonic/gin"

	appproduction "github.com/udyog/backend/internal/application/production"
)

// MachineHandler exposes machine CRUD
type MachineHandler struct {
	BaseHandler
	machines *appproduction.MachineService
}

// NewMachineHandler creates a MachineHandler
func NewMachineHandler(machines *appproduction.MachineService) *MachineHandler {
	return &MachineHandler{machines: machines}
}

// RegisterRoutes registers machine endpoints
func (h *MachineHandler) RegisterRoutes(rg *gin.RouterGroup) {
	machines := rg.Group("/machines")
	machines.POST("", h.Create)
	machines.GET("", h.List)
	machines.PUT("/:id", h.Update)
	machines.DELETE("/:id", h.Delete)
}

// Create creates a machine
func (h *MachineHandler) Create(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}

	var req appproduction.MachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	machine, err := h.machines.Create(c.Request.Context(), tenant, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, machine)
}

// List returns a page of machines
func (h *MachineHandler) List(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}
	page, pageSize := pageParams(c)

	result, err := h.machines.List(c.Request.Context(), tenant, page, pageSize, c.Query("search"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(c, result)
}

// Update updates a machine
func (h *MachineHandler) Update(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid machine id")
		return
	}

	var req appproduction.MachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	machine, err := h.machines.Update(c.Request.Context(), tenant, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, machine)
}

// Delete removes a machine
func (h *MachineHandler) Delete(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid machine id")
		return
	}

	if err := h.machines.Delete(c.Request.Context(), tenant, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
