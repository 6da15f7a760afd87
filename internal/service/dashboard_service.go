package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DashboardSummary is the landing-page aggregate for one month.
type DashboardSummary struct {
	Month         int                  `json:"month"`
	StudentCount  int                  `json:"student_count"`
	TotalSessions int                  `json:"total_sessions"`
	TotalAmount   float64              `json:"total_amount"`
	PerStudent    []StudentSessionLoad `json:"per_student"`
}

// StudentSessionLoad feeds the sessions-per-student chart.
type StudentSessionLoad struct {
	StudentName string  `json:"student_name"`
	ClassName   string  `json:"class_name"`
	Sessions    int     `json:"sessions"`
	Amount      float64 `json:"amount"`
}

// DashboardService derives the overview from the billing view. It
// rides on the billing service's cached read path rather than keeping
// a second cache of the same data.
type DashboardService struct {
	billing *BillingService
	logger  *zap.Logger
}

// NewDashboardService constructs the dashboard service.
func NewDashboardService(billing *BillingService, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{billing: billing, logger: logger}
}

// Summary computes the month overview.
func (s *DashboardService) Summary(ctx context.Context, month time.Month) (*DashboardSummary, error) {
	view, err := s.billing.MonthlyReports(ctx, month)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		Month:         view.Month,
		StudentCount:  len(view.Reports),
		TotalSessions: view.Totals.TotalSessions,
		TotalAmount:   view.Totals.TotalAmount,
		PerStudent:    make([]StudentSessionLoad, 0, len(view.Reports)),
	}
	for _, r := range view.Reports {
		summary.PerStudent = append(summary.PerStudent, StudentSessionLoad{
			StudentName: r.StudentName,
			ClassName:   r.ClassName,
			Sessions:    r.TotalSessions,
			Amount:      r.TotalAmount,
		})
	}
	return summary, nil
}
