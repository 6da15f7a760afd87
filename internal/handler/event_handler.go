package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tutordesk/tuition-api/internal/models"
	"github.com/tutordesk/tuition-api/pkg/response"
)

type eventReader interface {
	List(ctx context.Context) ([]models.CalendarEvent, error)
	ListByMonth(ctx context.Context, month time.Month) ([]models.CalendarEvent, error)
}

// EventHandler exposes the synced calendar.
type EventHandler struct {
	events eventReader
}

// NewEventHandler constructs the handler.
func NewEventHandler(events eventReader) *EventHandler {
	return &EventHandler{events: events}
}

// List godoc
// @Summary List calendar events
// @Description Returns events, optionally filtered to one calendar month
// @Tags Events
// @Produce json
// @Param month query int false "Calendar month (1-12)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /events [get]
func (h *EventHandler) List(c *gin.Context) {
	var (
		events []models.CalendarEvent
		err    error
	)
	if strings.TrimSpace(c.Query("month")) == "" {
		events, err = h.events.List(c.Request.Context())
	} else {
		var month time.Month
		month, err = monthQuery(c)
		if err == nil {
			events, err = h.events.ListByMonth(c.Request.Context(), month)
		}
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events)
}
