package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/repair-service-api/services"
)

// ListAssignments handles GET /api/v1/assignments?status=
func (h *Controller) ListAssignments(c *gin.Context) {
	assignments, err := h.svc.ListAssignments(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, assignments)
}

// ListAssignmentsAwaitingPayment handles GET /api/v1/assignments/awaiting-payment
func (h *Controller) ListAssignmentsAwaitingPayment(c *gin.Context) {
	assignments, err := h.svc.AssignmentsAwaitingPayment(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, assignments)
}

// ListAssignmentsAwaitingReview handles GET /api/v1/assignments/awaiting-review
func (h *Controller) ListAssignmentsAwaitingReview(c *gin.Context) {
	assignments, err := h.svc.AssignmentsAwaitingReview(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, assignments)
}

// GetAssignment handles GET /api/v1/assignments/:id
func (h *Controller) GetAssignment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	assignment, err := h.svc.GetAssignment(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, assignment)
}

// AssignTechnician handles POST /api/v1/assignments
func (h *Controller) AssignTechnician(c *gin.Context) {
	var in services.AssignInput
	if !bindJSON(c, &in) {
		return
	}
	assignment, err := h.svc.AssignTechnicianToRequest(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondCreated(c, assignment)
}

// StartService handles POST /api/v1/assignments/:id/start
func (h *Controller) StartService(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	assignment, err := h.svc.StartService(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, assignment)
}

// CompleteService handles POST /api/v1/assignments/:id/complete
func (h *Controller) CompleteService(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in services.CompleteInput
	if !bindJSON(c, &in) {
		return
	}
	payment, err := h.svc.CompleteServiceAndPayment(c.Request.Context(), id, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondCreated(c, payment)
}
