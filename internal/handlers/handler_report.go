package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/fintrk/fin_tracker_app/internal/core/ports/services"
	"github.com/fintrk/fin_tracker_app/internal/dto"
	"github.com/fintrk/fin_tracker_app/internal/middleware"
)

// reportHandler handles HTTP requests related to transaction reports.
type reportHandler struct {
	reportService portssvc.ReportSvcFacade
}

func newReportHandler(rs portssvc.ReportSvcFacade) *reportHandler {
	return &reportHandler{reportService: rs}
}

// registerReportRoutes registers routes related to reports.
func registerReportRoutes(rg *gin.RouterGroup, reportService portssvc.ReportSvcFacade) {
	h := newReportHandler(reportService)

	reports := rg.Group("/reports")
	{
		reports.POST("", h.createReport)
		reports.GET("/:taskID", h.getReportByTaskID)
	}
}

// createReport godoc
// @Summary Request a transaction report
// @Description Enqueues CSV report generation and returns a task ID for polling
// @Tags reports
// @Accept  json
// @Produce  json
// @Param   report body dto.CreateReportRequest true "Report parameters"
// @Success 202 {object} map[string]string "Task ID of the enqueued report"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to enqueue report"
// @Security BearerAuth
// @Router /reports [post]
func (h *reportHandler) createReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateReport", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	taskID, err := h.reportService.RequestReport(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to enqueue report")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"taskID": taskID})
}

// getReportByTaskID godoc
// @Summary Poll a report task
// @Description Retrieves the status and, when finished, the location of a generated report
// @Tags reports
// @Produce  json
// @Param   taskID path string true "Report task ID"
// @Success 200 {object} dto.ReportResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Report task not found"
// @Security BearerAuth
// @Router /reports/{taskID} [get]
func (h *reportHandler) getReportByTaskID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	record, err := h.reportService.GetReportByTaskID(c.Request.Context(), userID, c.Param("taskID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve report task")
		return
	}

	c.JSON(http.StatusOK, dto.ToReportResponse(record))
}
