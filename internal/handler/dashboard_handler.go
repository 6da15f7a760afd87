package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tutordesk/tuition-api/internal/service"
	"github.com/tutordesk/tuition-api/pkg/response"
)

type dashboardSummarizer interface {
	Summary(ctx context.Context, month time.Month) (*service.DashboardSummary, error)
}

// DashboardHandler serves the landing-page overview.
type DashboardHandler struct {
	dashboard dashboardSummarizer
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(dashboard dashboardSummarizer) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Summary godoc
// @Summary Month overview
// @Description Aggregates sessions and revenue across the roster for one month
// @Tags Dashboard
// @Produce json
// @Param month query int false "Calendar month (1-12), defaults to the current month"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /dashboard/summary [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	month, err := monthQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	summary, err := h.dashboard.Summary(c.Request.Context(), month)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary)
}
