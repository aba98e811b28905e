package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/repair-service-api/services"
)

// ListLocations handles GET /api/v1/locations
func (h *Controller) ListLocations(c *gin.Context) {
	locations, err := h.svc.ListLocations(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, locations)
}

// GetLocation handles GET /api/v1/locations/:id
func (h *Controller) GetLocation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	location, err := h.svc.GetLocation(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, location)
}

// CreateLocation handles POST /api/v1/locations
func (h *Controller) CreateLocation(c *gin.Context) {
	var in services.LocationInput
	if !bindJSON(c, &in) {
		return
	}
	location, err := h.svc.CreateLocation(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondCreated(c, location)
}

// UpdateLocation handles PUT /api/v1/locations/:id
func (h *Controller) UpdateLocation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in services.LocationInput
	if !bindJSON(c, &in) {
		return
	}
	location, err := h.svc.UpdateLocation(c.Request.Context(), id, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, location)
}

// DeleteLocation handles DELETE /api/v1/locations/:id
func (h *Controller) DeleteLocation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteLocation(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Location deleted",
	})
}
