package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/repair-service-api/services"
)

// ListCategories handles GET /api/v1/categories
func (h *Controller) ListCategories(c *gin.Context) {
	categories, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, categories)
}

// GetCategory handles GET /api/v1/categories/:id
func (h *Controller) GetCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	category, err := h.svc.GetCategory(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, category)
}

// CreateCategory handles POST /api/v1/categories
func (h *Controller) CreateCategory(c *gin.Context) {
	var in services.CategoryInput
	if !bindJSON(c, &in) {
		return
	}
	category, err := h.svc.CreateCategory(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondCreated(c, category)
}

// UpdateCategory handles PUT /api/v1/categories/:id
func (h *Controller) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in services.CategoryInput
	if !bindJSON(c, &in) {
		return
	}
	category, err := h.svc.UpdateCategory(c.Request.Context(), id, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, category)
}

// DeleteCategory handles DELETE /api/v1/categories/:id
func (h *Controller) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteCategory(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Category deleted",
	})
}
