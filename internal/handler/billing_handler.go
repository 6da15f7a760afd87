package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tutordesk/tuition-api/internal/dto"
	"github.com/tutordesk/tuition-api/pkg/response"
)

type billingReporter interface {
	MonthlyReports(ctx context.Context, month time.Month) (*dto.BillingReportResponse, error)
}

// BillingHandler serves the monthly billing view.
type BillingHandler struct {
	billing billingReporter
}

// NewBillingHandler constructs the handler.
func NewBillingHandler(billing billingReporter) *BillingHandler {
	return &BillingHandler{billing: billing}
}

// Reports godoc
// @Summary Monthly billing reports
// @Description Returns the per-student fee reconciliation for one month
// @Tags Billing
// @Produce json
// @Param month query int false "Calendar month (1-12), defaults to the current month"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /billing/reports [get]
func (h *BillingHandler) Reports(c *gin.Context) {
	month, err := monthQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	view, err := h.billing.MonthlyReports(c.Request.Context(), month)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}
