package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tutordesk/tuition-api/internal/dto"
	appErrors "github.com/tutordesk/tuition-api/pkg/errors"
	"github.com/tutordesk/tuition-api/pkg/response"
)

type noticeReconciler interface {
	Scan(ctx context.Context, req dto.ReconcileRequest) (*dto.ReconcileResponse, error)
}

// ReconcileHandler triggers the notice reconciliation batch.
type ReconcileHandler struct {
	reconciler noticeReconciler
}

// NewReconcileHandler constructs the handler.
func NewReconcileHandler(reconciler noticeReconciler) *ReconcileHandler {
	return &ReconcileHandler{reconciler: reconciler}
}

// Scan godoc
// @Summary Scan notices against the calendar
// @Description Analyzes synced emails, auto-cancels matched classes and returns the recomputed billing view
// @Tags Reconcile
// @Accept json
// @Produce json
// @Param payload body dto.ReconcileRequest true "Scan payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /reconcile/scan [post]
func (h *ReconcileHandler) Scan(c *gin.Context) {
	var req dto.ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid scan payload"))
		return
	}

	res, err := h.reconciler.Scan(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res)
}
