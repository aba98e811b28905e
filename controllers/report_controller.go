package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/repair-service-api/utils"
)

// Dashboard handles GET /api/v1/dashboard
func (h *Controller) Dashboard(c *gin.Context) {
	overview, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, overview)
}

// ListReports handles GET /api/v1/reports?kind=view|report|analytics
func (h *Controller) ListReports(c *gin.Context) {
	respondOK(c, h.svc.ListReports(c.Query("kind")))
}

// GetReport handles GET /api/v1/reports/:name?format=json|csv|xlsx.
// csv and xlsx are served as attachments.
func (h *Controller) GetReport(c *gin.Context) {
	format, err := utils.NormalizeFormat(c.Query("format"))
	if err != nil {
		respondErrorCode(c, http.StatusBadRequest, "INVALID_FORMAT", err.Error())
		return
	}

	if format == utils.FormatJSON {
		result, err := h.svc.RunReport(c.Request.Context(), c.Param("name"))
		if err != nil {
			h.respondError(c, err)
			return
		}
		respondOK(c, result)
		return
	}

	export, err := h.svc.ExportReport(c.Request.Context(), c.Param("name"), format)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	c.Data(http.StatusOK, export.ContentType, export.Data)
}

// ArchiveReport handles POST /api/v1/reports/:name/archive?format=csv|xlsx
func (h *Controller) ArchiveReport(c *gin.Context) {
	format := c.DefaultQuery("format", utils.FormatCSV)
	archived, err := h.svc.ArchiveReport(c.Request.Context(), c.Param("name"), format)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondCreated(c, archived)
}

// DatabaseStatus handles GET /api/v1/database/status
func (h *Controller) DatabaseStatus(c *gin.Context) {
	if err := h.svc.Ping(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	tables, err := h.svc.TableNames(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
