package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/repair-service-api/services"
)

// ListUsers handles GET /api/v1/users?user_type=
func (h *Controller) ListUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context(), c.Query("user_type"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, users)
}

// GetUser handles GET /api/v1/users/:id
func (h *Controller) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user, err := h.svc.GetUser(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, user)
}

// CreateUser handles POST /api/v1/users
func (h *Controller) CreateUser(c *gin.Context) {
	var in services.UserInput
	if !bindJSON(c, &in) {
		return
	}
	user, err := h.svc.CreateUser(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondCreated(c, user)
}

// UpdateUser handles PUT /api/v1/users/:id
func (h *Controller) UpdateUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in services.UserUpdateInput
	if !bindJSON(c, &in) {
		return
	}
	user, err := h.svc.UpdateUser(c.Request.Context(), id, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, user)
}

// DeleteUser handles DELETE /api/v1/users/:id
func (h *Controller) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteUser(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User deleted",
	})
}
