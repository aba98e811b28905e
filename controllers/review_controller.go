package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/repair-service-api/services"
)

// ListReviews handles GET /api/v1/reviews
func (h *Controller) ListReviews(c *gin.Context) {
	reviews, err := h.svc.ListReviews(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, reviews)
}

// GetReview handles GET /api/v1/reviews/:id
func (h *Controller) GetReview(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	review, err := h.svc.GetReview(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, review)
}

// CreateReview handles POST /api/v1/reviews
func (h *Controller) CreateReview(c *gin.Context) {
	var in services.ReviewInput
	if !bindJSON(c, &in) {
		return
	}
	review, err := h.svc.CreateReview(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondCreated(c, review)
}
