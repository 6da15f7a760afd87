package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tutordesk/tuition-api/internal/dto"
	"github.com/tutordesk/tuition-api/internal/models"
	appErrors "github.com/tutordesk/tuition-api/pkg/errors"
)

// auditMarker is appended to an event description when a notice
// cancels it, so the calendar keeps a trace of why.
const auditMarker = " [AI: Huỷ từ email]"

type noticeAnalyzer interface {
	Configured() bool
	Analyze(ctx context.Context, email models.Email) (*models.EmailAnalysisResult, error)
}

type emailLister interface {
	List(ctx context.Context) ([]models.Email, error)
}

type reconciledEventWriter interface {
	ListByMonth(ctx context.Context, month time.Month) ([]models.CalendarEvent, error)
	UpdateReconciled(ctx context.Context, event models.CalendarEvent) error
}

// ReconcileService runs the notice reconciliation batch: one analyzer
// call per notice, strictly sequential, then persists the resulting
// event mutations and recomputes the billing view.
type ReconcileService struct {
	analyzer    noticeAnalyzer
	emails      emailLister
	events      reconciledEventWriter
	billing     *BillingService
	metrics     *MetricsService
	callTimeout time.Duration
	logger      *zap.Logger
}

// NewReconcileService constructs the reconcile service. metrics may be nil.
func NewReconcileService(analyzer noticeAnalyzer, emails emailLister, events reconciledEventWriter, billing *BillingService, metrics *MetricsService, callTimeout time.Duration, logger *zap.Logger) *ReconcileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if callTimeout <= 0 {
		callTimeout = 30 * time.Second
	}
	return &ReconcileService{
		analyzer:    analyzer,
		emails:      emails,
		events:      events,
		billing:     billing,
		metrics:     metrics,
		callTimeout: callTimeout,
		logger:      logger,
	}
}

// reconcileOutcome carries the adapter's results for one batch.
type reconcileOutcome struct {
	events  []models.CalendarEvent
	changed []models.CalendarEvent
	log     []string
}

func copyEvents(events []models.CalendarEvent) []models.CalendarEvent {
	out := make([]models.CalendarEvent, len(events))
	copy(out, events)
	for i := range out {
		tags := make([]string, len(out[i].Tags))
		copy(tags, out[i].Tags)
		out[i].Tags = tags
	}
	return out
}

func sameCalendarDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// reconcile applies notices to a copy of the event set and returns the
// updated copy, the subset that changed, and the ordered log. The input
// slice is never aliased so the engine's purity is not at risk.
//
// Notices are processed one at a time in input order; the log and the
// first-match-wins event resolution depend on that, so this loop must
// not be parallelized. Each analyzer call runs under its own timeout
// and a failed or timed-out call degrades to an UNKNOWN result rather
// than aborting the batch. A cancelled context stops the batch between
// notices; mutations applied so far are kept.
func (s *ReconcileService) reconcile(ctx context.Context, emails []models.Email, events []models.CalendarEvent) reconcileOutcome {
	outcome := reconcileOutcome{events: copyEvents(events)}

	for _, email := range emails {
		if ctx.Err() != nil {
			outcome.log = append(outcome.log, "Batch aborted, keeping mutations applied so far.")
			break
		}

		outcome.log = append(outcome.log, fmt.Sprintf("Analyzing email: %q...", email.Subject))

		callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
		callStart := time.Now()
		result, err := s.analyzer.Analyze(callCtx, email)
		cancel()
		if s.metrics != nil {
			callOutcome := "ok"
			if err != nil {
				callOutcome = "error"
			}
			s.metrics.ObserveAnalyzerCall(callOutcome, time.Since(callStart))
		}
		if err != nil {
			// Degrade to the synthetic UNKNOWN verdict: log the failure
			// and move on, an UNKNOWN action never mutates anything.
			s.logger.Warn("notice analysis failed", zap.String("email_id", email.ID), zap.Error(err))
			outcome.log = append(outcome.log, "-> Error analyzing email. (AI Analysis Failed)")
			continue
		}

		if result.RelatedStudentName == nil {
			outcome.log = append(outcome.log, fmt.Sprintf("-> No student detected, Action: %s", result.Action))
			continue
		}
		outcome.log = append(outcome.log, fmt.Sprintf("-> Detected: %s, Action: %s", *result.RelatedStudentName, result.Action))

		// Reschedule handling is not implemented; such notices are
		// recorded and left for the tutor to act on manually.
		if result.Action != models.NoticeActionCancel || result.TargetDate == nil {
			continue
		}

		targetDate, err := time.Parse("2006-01-02", *result.TargetDate)
		if err != nil {
			outcome.log = append(outcome.log, fmt.Sprintf("-> Unusable target date %q, skipped.", *result.TargetDate))
			continue
		}

		for i := range outcome.events {
			e := &outcome.events[i]
			if !sameCalendarDate(e.StartAt, targetDate) || !containsName(e.Title, *result.RelatedStudentName) {
				continue
			}
			if e.Status != models.EventStatusCancelled {
				e.Status = models.EventStatusCancelled
				e.Tags = append(e.Tags, models.TagCancelled)
				e.Description += auditMarker
				outcome.changed = append(outcome.changed, *e)
				outcome.log = append(outcome.log, fmt.Sprintf("-> Auto-cancelled class on %d/%d", targetDate.Day(), int(targetDate.Month())))
			}
			break
		}
	}

	return outcome
}

func containsName(title, name string) bool {
	return name != "" && strings.Contains(title, name)
}

// Scan runs the batch for one month: refuses without analyzer
// credentials, applies notices, persists the mutated events, drops the
// cached view, and re-runs the engine.
func (s *ReconcileService) Scan(ctx context.Context, req dto.ReconcileRequest) (*dto.ReconcileResponse, error) {
	if req.Month < 1 || req.Month > 12 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "month must be between 1 and 12")
	}
	if !s.analyzer.Configured() {
		return nil, appErrors.ErrMissingAPIKey
	}
	month := time.Month(req.Month)

	emails, err := s.emails.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notices")
	}
	events, err := s.events.ListByMonth(ctx, month)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}

	outcome := s.reconcile(ctx, emails, events)

	for _, changed := range outcome.changed {
		if err := s.events.UpdateReconciled(ctx, changed); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist reconciled event")
		}
	}
	if len(outcome.changed) > 0 {
		s.billing.InvalidateMonth(ctx, month)
	}

	reports, err := s.billing.MonthlyReports(ctx, month)
	if err != nil {
		return nil, err
	}

	return &dto.ReconcileResponse{
		Log:       outcome.log,
		Cancelled: len(outcome.changed),
		Reports:   reports,
	}, nil
}
