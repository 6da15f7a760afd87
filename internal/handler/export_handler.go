package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tutordesk/tuition-api/internal/dto"
	"github.com/tutordesk/tuition-api/internal/service"
	appErrors "github.com/tutordesk/tuition-api/pkg/errors"
	"github.com/tutordesk/tuition-api/pkg/response"
)

var exportContentTypes = map[string]string{
	"csv":  "text/csv; charset=utf-8",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"pdf":  "application/pdf",
}

type billingExporter interface {
	Generate(ctx context.Context, req dto.ExportRequest) (*dto.ExportResponse, error)
	ResolveDownload(ctx context.Context, token string) (*service.ExportDownload, error)
}

// ExportHandler renders billing exports and serves the signed downloads.
type ExportHandler struct {
	exports billingExporter
}

// NewExportHandler constructs the handler.
func NewExportHandler(exports billingExporter) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Create godoc
// @Summary Export billing reports
// @Description Renders the monthly billing view as CSV, XLSX or PDF and returns a signed download link
// @Tags Billing
// @Accept json
// @Produce json
// @Param payload body dto.ExportRequest true "Export payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /billing/export [post]
func (h *ExportHandler) Create(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export payload"))
		return
	}

	res, err := h.exports.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

// Download godoc
// @Summary Download a rendered export
// @Description Streams the export file referenced by a signed token
// @Tags Billing
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /export/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	download, err := h.exports.ResolveDownload(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.File.Close()

	contentType := exportContentTypes[download.Format]
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.Filename))
	c.Header("Content-Type", contentType)
	c.File(download.File.Name())
}
