package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/repair-service-api/services"
	"go.uber.org/zap"
)

// Controller holds the HTTP handlers of the API
type Controller struct {
	svc       *services.Service
	operators *services.OperatorService
	log       *zap.Logger
}

// New creates a Controller. operators may be nil when auth is disabled.
func New(svc *services.Service, operators *services.OperatorService, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{svc: svc, operators: operators, log: logger}
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondErrorCode(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// respondError maps service errors onto HTTP statuses. Unexpected errors
// are logged and reported without details.
func (h *Controller) respondError(c *gin.Context, err error) {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		h.log.Error("Unhandled error",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err))
		_ = c.Error(err)
		respondErrorCode(c, http.StatusInternalServerError, "DATABASE_ERROR", "An unexpected error occurred")
		return
	}

	status := http.StatusInternalServerError
	switch svcErr.Kind {
	case services.KindValidation:
		status = http.StatusBadRequest
	case services.KindPrecondition:
		status = http.StatusConflict
	case services.KindNotFound:
		status = http.StatusNotFound
	case services.KindUnavailable:
		status = http.StatusServiceUnavailable
	}
	respondErrorCode(c, status, svcErr.Code, svcErr.Message)
}

// bindJSON decodes the request body, answering 400 on malformed JSON
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return false
	}
	return true
}

// parseID reads a positive integer path parameter, answering 400 otherwise
func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		respondErrorCode(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+param+" parameter")
		return 0, false
	}
	return uint(id), true
}
