package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/tutordesk/tuition-api/internal/dto"
	appErrors "github.com/tutordesk/tuition-api/pkg/errors"
)

type fakeReconcileSrv struct {
	resp    *dto.ReconcileResponse
	err     error
	lastReq dto.ReconcileRequest
}

func (f *fakeReconcileSrv) Scan(_ context.Context, req dto.ReconcileRequest) (*dto.ReconcileResponse, error) {
	f.lastReq = req
	return f.resp, f.err
}

func TestReconcileHandlerRejectsBadPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReconcileHandler(&fakeReconcileSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/reconcile/scan", strings.NewReader("{"))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Scan(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReconcileHandlerMapsMissingAPIKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReconcileHandler(&fakeReconcileSrv{err: appErrors.ErrMissingAPIKey})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/reconcile/scan", strings.NewReader(`{"month":10}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Scan(c)

	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
}

func TestReconcileHandlerPassesMonth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	fake := &fakeReconcileSrv{resp: &dto.ReconcileResponse{Cancelled: 1, Log: []string{"ok"}}}
	handler := NewReconcileHandler(fake)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/reconcile/scan", strings.NewReader(`{"month":10}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Scan(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10, fake.lastReq.Month)
}
