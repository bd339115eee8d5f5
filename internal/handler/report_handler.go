package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/learnroot/learnroot-api/internal/service"
	"github.com/learnroot/learnroot-api/pkg/response"
)

// ReportHandler streams rendered roster reports.
type ReportHandler struct {
	service *service.ReportService
}

// NewReportHandler constructs a new ReportHandler.
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// Students godoc
// @Summary Download student roster
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /reports/students [get]
func (h *ReportHandler) Students(c *gin.Context) {
	format, err := service.ParseReportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.service.StudentRoster(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.stream(c, report)
}

// Teachers godoc
// @Summary Download teacher roster
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /reports/teachers [get]
func (h *ReportHandler) Teachers(c *gin.Context) {
	format, err := service.ParseReportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.service.TeacherRoster(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.stream(c, report)
}

func (h *ReportHandler) stream(c *gin.Context, report *service.Report) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName))
	c.Data(http.StatusOK, report.ContentType, report.Content)
}
