package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutordesk/tuition-api/internal/dto"
	"github.com/tutordesk/tuition-api/pkg/currency"
	appErrors "github.com/tutordesk/tuition-api/pkg/errors"
	"github.com/tutordesk/tuition-api/pkg/export"
	"github.com/tutordesk/tuition-api/pkg/storage"
)

// BillingExportHeaders is the export column contract. Order and
// presence are part of the compatibility surface for every format.
var BillingExportHeaders = []string{
	"Parent", "Student", "Class", "Fee/Session", "Session Count", "Total Amount", "Day List",
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type excelRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
}

// ExportDownload aggregates resolved download data.
type ExportDownload struct {
	File     *os.File
	Filename string
	Format   string
}

// ExportService renders the billing view into CSV, XLSX or PDF files
// and hands out signed download links.
type ExportService struct {
	billing   *BillingService
	storage   fileStorage
	signer    *storage.SignedURLSigner
	csv       csvRenderer
	excel     excelRenderer
	pdf       pdfRenderer
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(billing *BillingService, store fileStorage, signer *storage.SignedURLSigner, validate *validator.Validate, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ExportService{
		billing:   billing,
		storage:   store,
		signer:    signer,
		csv:       export.NewCSVExporter(),
		excel:     export.NewExcelExporter(),
		pdf:       export.NewPDFExporter(),
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// BuildBillingDataset flattens the billing view into export rows,
// formatting monetary columns for display.
func BuildBillingDataset(view *dto.BillingReportResponse) export.Dataset {
	rows := make([]map[string]string, 0, len(view.Reports)+1)
	for _, r := range view.Reports {
		rows = append(rows, map[string]string{
			"Parent":        r.ParentName,
			"Student":       r.StudentName,
			"Class":         r.ClassName,
			"Fee/Session":   currency.Format(r.FeePerSession),
			"Session Count": fmt.Sprintf("%d", r.TotalSessions),
			"Total Amount":  currency.Format(r.TotalAmount),
			"Day List":      r.DayList,
		})
	}
	if len(view.Reports) > 0 {
		rows = append(rows, map[string]string{
			"Parent":        "TOTAL",
			"Session Count": fmt.Sprintf("%d", view.Totals.TotalSessions),
			"Total Amount":  currency.Format(view.Totals.TotalAmount),
		})
	}
	return export.Dataset{Headers: BillingExportHeaders, Rows: rows}
}

// Generate renders the requested month and format and returns a signed
// download link.
func (s *ExportService) Generate(ctx context.Context, req dto.ExportRequest) (*dto.ExportResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export request")
	}

	view, err := s.billing.MonthlyReports(ctx, time.Month(req.Month))
	if err != nil {
		return nil, err
	}
	dataset := BuildBillingDataset(view)

	var payload []byte
	switch req.Format {
	case "csv":
		payload, err = s.csv.Render(dataset)
	case "xlsx":
		payload, err = s.excel.Render(dataset)
	case "pdf":
		payload, err = s.pdf.Render(dataset, fmt.Sprintf("Tuition - Month %d", req.Month))
	default:
		return nil, appErrors.ErrUnsupportedFormat
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	exportID := uuid.NewString()
	filename := fmt.Sprintf("billing/month-%02d-%s.%s", req.Month, exportID, req.Format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}

	token, expiresAt, err := s.signer.Generate(exportID, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download link")
	}

	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	return &dto.ExportResponse{
		URL:       fmt.Sprintf("%s/export/%s", prefix, token),
		Format:    req.Format,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	}, nil
}

// ResolveDownload validates a token and opens the stored export file.
func (s *ExportService) ResolveDownload(ctx context.Context, token string) (*ExportDownload, error) {
	_, relPath, _, err := s.signer.Parse(token)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export no longer available")
	}
	parts := strings.Split(relPath, "/")
	name := parts[len(parts)-1]
	ext := ""
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		ext = name[idx+1:]
	}
	return &ExportDownload{File: file, Filename: name, Format: ext}, nil
}
