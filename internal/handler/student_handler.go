package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tutordesk/tuition-api/internal/models"
	"github.com/tutordesk/tuition-api/pkg/response"
)

type studentRoster interface {
	List(ctx context.Context) ([]models.Student, error)
}

// StudentHandler exposes the student roster.
type StudentHandler struct {
	students studentRoster
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(students studentRoster) *StudentHandler {
	return &StudentHandler{students: students}
}

// List godoc
// @Summary List students
// @Description Returns the full roster in registration order
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.students.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students)
}
