package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/repair-service-api/services"
)

// ListTechnicians handles GET /api/v1/technicians?availability=
func (h *Controller) ListTechnicians(c *gin.Context) {
	technicians, err := h.svc.ListTechnicians(c.Request.Context(), c.Query("availability"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, technicians)
}

// ListEligibleTechnicianUsers handles GET /api/v1/technicians/eligible-users
func (h *Controller) ListEligibleTechnicianUsers(c *gin.Context) {
	users, err := h.svc.EligibleTechnicianUsers(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, users)
}

// GetTechnician handles GET /api/v1/technicians/:id
func (h *Controller) GetTechnician(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	technician, err := h.svc.GetTechnician(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, technician)
}

// CreateTechnician handles POST /api/v1/technicians
func (h *Controller) CreateTechnician(c *gin.Context) {
	var in services.TechnicianInput
	if !bindJSON(c, &in) {
		return
	}
	technician, err := h.svc.CreateTechnician(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondCreated(c, technician)
}

// UpdateTechnician handles PUT /api/v1/technicians/:id
func (h *Controller) UpdateTechnician(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in services.TechnicianUpdateInput
	if !bindJSON(c, &in) {
		return
	}
	technician, err := h.svc.UpdateTechnician(c.Request.Context(), id, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, technician)
}

// DeleteTechnician handles DELETE /api/v1/technicians/:id
func (h *Controller) DeleteTechnician(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteTechnician(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Technician deleted",
	})
}

// GetTechnicianRating handles GET /api/v1/technicians/:id/rating.
// rating is null when the technician has no reviews.
func (h *Controller) GetTechnicianRating(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	rating, err := h.svc.GetTechnicianRating(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, rating)
}

// GetTechnicianEarnings handles GET /api/v1/technicians/:id/earnings?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *Controller) GetTechnicianEarnings(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		respondErrorCode(c, http.StatusBadRequest, "VALIDATION_ERROR", "start must be a date in 2006-01-02 format")
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		respondErrorCode(c, http.StatusBadRequest, "VALIDATION_ERROR", "end must be a date in 2006-01-02 format")
		return
	}
	earnings, err := h.svc.GetTechnicianEarnings(c.Request.Context(), id, start, end)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, earnings)
}

// GetTechnicianDashboard handles GET /api/v1/technicians/:id/dashboard.
// An unknown technician yields found=false with 200.
func (h *Controller) GetTechnicianDashboard(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	dashboard, err := h.svc.GetTechnicianDashboard(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, dashboard)
}
