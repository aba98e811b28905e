package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/repair-service-api/services"
)

// ListRequests handles GET /api/v1/requests?status=
func (h *Controller) ListRequests(c *gin.Context) {
	requests, err := h.svc.ListRequests(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, requests)
}

// ListAssignableRequests handles GET /api/v1/requests/assignable
func (h *Controller) ListAssignableRequests(c *gin.Context) {
	requests, err := h.svc.AssignableRequests(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, requests)
}

// GetRequest handles GET /api/v1/requests/:id
func (h *Controller) GetRequest(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	request, err := h.svc.GetRequest(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, request)
}

// CreateRequest handles POST /api/v1/requests
func (h *Controller) CreateRequest(c *gin.Context) {
	var in services.RepairRequestInput
	if !bindJSON(c, &in) {
		return
	}
	request, err := h.svc.CreateRequest(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondCreated(c, request)
}

// UpdateRequest handles PUT /api/v1/requests/:id
func (h *Controller) UpdateRequest(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in services.RepairRequestUpdateInput
	if !bindJSON(c, &in) {
		return
	}
	request, err := h.svc.UpdateRequest(c.Request.Context(), id, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, request)
}

// DeleteRequest handles DELETE /api/v1/requests/:id
func (h *Controller) DeleteRequest(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteRequest(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Request deleted",
	})
}

// UpdateRequestStatus handles PATCH /api/v1/requests/:id/status
func (h *Controller) UpdateRequestStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in services.StatusInput
	if !bindJSON(c, &in) {
		return
	}
	request, err := h.svc.TransitionRequest(c.Request.Context(), id, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, request)
}

// CancelRequest handles POST /api/v1/requests/:id/cancel
func (h *Controller) CancelRequest(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	request, err := h.svc.CancelRequest(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, request)
}
