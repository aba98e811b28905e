package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/repair-service-api/services"
)

// ListPayments handles GET /api/v1/payments?status=
func (h *Controller) ListPayments(c *gin.Context) {
	payments, err := h.svc.ListPayments(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, payments)
}

// GetPayment handles GET /api/v1/payments/:id
func (h *Controller) GetPayment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	payment, err := h.svc.GetPayment(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, payment)
}

// RecordPayment handles POST /api/v1/payments
func (h *Controller) RecordPayment(c *gin.Context) {
	var in services.PaymentInput
	if !bindJSON(c, &in) {
		return
	}
	payment, err := h.svc.RecordPayment(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondCreated(c, payment)
}

// PaymentSummary handles GET /api/v1/payments/summary
func (h *Controller) PaymentSummary(c *gin.Context) {
	summary, err := h.svc.SummarizePayments(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, summary)
}
