package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/repair-service-api/middleware"
)

// GetOperatorProfile handles GET /api/v1/me - the signed-in operator from Auth0's /userinfo
func (h *Controller) GetOperatorProfile(c *gin.Context) {
	if h.operators == nil {
		respondErrorCode(c, http.StatusServiceUnavailable, "AUTH_DISABLED", "Authentication is not configured")
		return
	}

	if _, err := middleware.GetOperatorID(c); err != nil {
		respondErrorCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract operator ID from token")
		return
	}

	accessToken, err := middleware.GetAccessToken(c)
	if err != nil {
		respondErrorCode(c, http.StatusUnauthorized, "MISSING_TOKEN", "Access token not found")
		return
	}

	profile, err := h.operators.GetOperatorProfile(c.Request.Context(), accessToken)
	if err != nil {
		h.log.Sugar().Warnw("Failed to fetch operator profile", "error", err)
		respondErrorCode(c, http.StatusBadGateway, "AUTH0_ERROR", "Failed to fetch operator information from Auth0")
		return
	}
	respondOK(c, profile)
}
