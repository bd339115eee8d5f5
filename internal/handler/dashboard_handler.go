package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/learnroot/learnroot-api/internal/service"
	"github.com/learnroot/learnroot-api/pkg/response"
)

// DashboardHandler wires the dashboard aggregate to HTTP.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler constructs a new DashboardHandler.
func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Overview godoc
// @Summary Dashboard overview
// @Description Headline counts, recent announcements, upcoming events, class distribution, teacher status, and recent activity
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	data, err := h.service.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, data, "")
}
