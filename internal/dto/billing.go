package dto

import "github.com/tutordesk/tuition-api/internal/models"

// BillingReportResponse is the computed monthly billing view.
type BillingReportResponse struct {
	Month   int                    `json:"month"`
	Reports []models.MonthlyReport `json:"reports"`
	Totals  models.BillingTotals   `json:"totals"`
}

// ExportRequest captures POST /billing/export payload.
type ExportRequest struct {
	Month  int    `json:"month" validate:"required,min=1,max=12"`
	Format string `json:"format" validate:"required,oneof=csv xlsx pdf"`
}

// ExportResponse returns the signed download link for a rendered export.
type ExportResponse struct {
	URL       string `json:"url"`
	Format    string `json:"format"`
	ExpiresAt string `json:"expires_at"`
}
