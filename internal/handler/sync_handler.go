package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tutordesk/tuition-api/internal/service"
	"github.com/tutordesk/tuition-api/pkg/response"
)

type datasetSyncer interface {
	Run(ctx context.Context) (*service.SyncResult, error)
}

// SyncHandler triggers the calendar/mailbox ingestion pass.
type SyncHandler struct {
	sync datasetSyncer
}

// NewSyncHandler constructs the handler.
func NewSyncHandler(sync datasetSyncer) *SyncHandler {
	return &SyncHandler{sync: sync}
}

// Run godoc
// @Summary Sync external data
// @Description Ingests the calendar and mailbox dataset, resolving student links
// @Tags Sync
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /sync [post]
func (h *SyncHandler) Run(c *gin.Context) {
	result, err := h.sync.Run(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
