package handler

import (
	"github.com/gin-gonic/gin"

	appcatalog "github.com/udyog/backend/internal/application/catalog"
)

// CategoryHandler exposes category CRUD
type CategoryHandler struct {
	BaseHandler
	categories *appcatalog.CategoryService
}

// NewCategoryHandler creates a CategoryHandler
func NewCategoryHandler(categories *appcatalog.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// RegisterRoutes registers category endpoints
func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	categories := rg.Group("/categories")
	categories.POST("", h.Create)
	categories.GET("", h.List)
	categories.PUT("/:id", h.Update)
	categories.DELETE("/:id", h.Delete)
}

// Create creates a category
func (h *CategoryHandler) Create(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}

	var req appcatalog.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	category, err := h.categories.Create(c.Request.Context(), tenant, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

// List returns a page of categories
func (h *CategoryHandler) List(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}
	page, pageSize := pageParams(c)

	result, err := h.categories.List(c.Request.Context(), tenant, page, pageSize, c.Query("search"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(c, result)
}

// Update updates a category
func (h *CategoryHandler) Update(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid category id")
		return
	}

	var req appcatalog.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	category, err := h.categories.Update(c.Request.Context(), tenant, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// Delete removes a category
func (h *CategoryHandler) Delete(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid category id")
		return
	}

	if err := h.categories.Delete(c.Request.Context(), tenant, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
