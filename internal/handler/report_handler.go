package handler

import (
	"net/http"
	"time"

	"backend/internal/auth"
	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
	authmw        *middleware.AuthMiddleware
}

func NewReportHandler(reportService service.ReportService, authmw *middleware.AuthMiddleware) *ReportHandler {
	return &ReportHandler{reportService: reportService, authmw: authmw}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/reports", h.authmw.Authenticate())
	{
		reports.GET("/summary", h.authmw.RequirePermission(auth.ResourceReports, auth.ActionRead), h.GetSummary)
		reports.GET("/export", h.authmw.RequirePermission(auth.ResourceReports, auth.ActionExport), h.ExportCSV)
	}
}

// dateRange parses start_date/end_date query params, defaulting to the
// current month.
func dateRange(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := now

	if s := c.Query("start_date"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			return start, end, err
		}
		start = parsed
	}
	if s := c.Query("end_date"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			return start, end, err
		}
		// Inclusive end of day
		end = parsed.Add(24*time.Hour - time.Nanosecond)
	}

	return start, end, nil
}

// GetSummary returns aggregated workshop activity for a date range
// @Summary      Get report summary
// @Description  Returns order counts by status, revenue, and entity totals for a date range
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        start_date  query     string  false  "Start date (YYYY-MM-DD, default first of current month)"
// @Param        end_date    query     string  false  "End date (YYYY-MM-DD, default today)"
// @Success      200         {object}  response.Response{data=service.ReportSummary}
// @Failure      400         {object}  response.Response
// @Failure      500         {object}  response.Response
// @Router       /api/reports/summary [get]
func (h *ReportHandler) GetSummary(c *gin.Context) {
	start, end, err := dateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD"))
		return
	}

	summary, err := h.reportService.GetSummary(c.Request.Context(), start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to build report"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

// ExportCSV downloads the summary as a CSV attachment
// @Summary      Export report
// @Description  Downloads the summary report for a date range as a CSV file
// @Tags         reports
// @Security     BearerAuth
// @Produce      text/csv
// @Param        start_date  query  string  false  "Start date (YYYY-MM-DD, default first of current month)"
// @Param        end_date    query  string  false  "End date (YYYY-MM-DD, default today)"
// @Success      200         {file}  file
// @Failure      400         {object}  response.Response
// @Failure      500         {object}  response.Response
// @Router       /api/reports/export [get]
func (h *ReportHandler) ExportCSV(c *gin.Context) {
	start, end, err := dateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD"))
		return
	}

	data, err := h.reportService.ExportCSV(c.Request.Context(), start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to export report"))
		return
	}

	filename := "report_" + start.Format("20060102") + "_" + end.Format("20060102") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", data)
}
