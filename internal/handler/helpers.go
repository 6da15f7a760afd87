package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	appErrors "github.com/tutordesk/tuition-api/pkg/errors"
)

// monthQuery resolves the ?month query parameter, defaulting to the
// current calendar month when absent.
func monthQuery(c *gin.Context) (time.Month, error) {
	raw := strings.TrimSpace(c.Query("month"))
	if raw == "" {
		return time.Now().Month(), nil
	}
	m, err := strconv.Atoi(raw)
	if err != nil || m < 1 || m > 12 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "month must be between 1 and 12")
	}
	return time.Month(m), nil
}
