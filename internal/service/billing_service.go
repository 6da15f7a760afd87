package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tutordesk/tuition-api/internal/dto"
	"github.com/tutordesk/tuition-api/internal/models"
	appErrors "github.com/tutordesk/tuition-api/pkg/errors"
)

// IsBillable decides whether a single event counts toward the fee
// total. Trial and cancelled events are excluded; the signal is
// redundant across tags and status and both channels are honoured,
// because a tag can mark an event whose status has not been updated
// yet. Everything else bills, including future SCHEDULED events: the
// tutor bills against the committed schedule, not completed work.
func IsBillable(e models.CalendarEvent) bool {
	trial := e.HasTag(models.TagTrial) || e.Status == models.EventStatusTrial
	cancelled := e.HasTag(models.TagCancelled) || e.Status == models.EventStatusCancelled
	return !trial && !cancelled
}

// MatchesStudent links an event to a student. Events ingested with an
// explicit student reference match by ID; unlinked legacy events fall
// back to a case-sensitive substring match of the student name inside
// the event title.
func MatchesStudent(student models.Student, e models.CalendarEvent) bool {
	if e.StudentID != nil {
		return *e.StudentID == student.ID
	}
	return strings.Contains(e.Title, student.Name)
}

// EventsForStudent selects the student's events whose start falls in
// the given calendar month. The year is deliberately ignored: the
// system assumes one academic year per deployment.
func EventsForStudent(student models.Student, events []models.CalendarEvent, month time.Month) []models.CalendarEvent {
	var matched []models.CalendarEvent
	for _, e := range events {
		if e.StartAt.Month() == month && MatchesStudent(student, e) {
			matched = append(matched, e)
		}
	}
	return matched
}

// FeePerSession derives the displayed per-session price. Session-rated
// students show their session rate; hourly students show an estimate of
// 1.5× the hourly rate. The estimate never feeds the total.
func FeePerSession(student models.Student) float64 {
	if student.SessionRate > 0 {
		return float64(student.SessionRate)
	}
	return float64(student.HourlyRate) * 1.5
}

// BuildReports runs the fee reconciliation engine: one MonthlyReport
// per student, in input order. Pure and reentrant; every call
// recomputes from scratch over the full inputs.
//
// SESSION pricing multiplies counted sessions by the session rate.
// HOURLY pricing reduces over billable events, applying the rate to
// each event's duration individually so a future per-event rate keeps
// the same floating-point summation order.
func BuildReports(students []models.Student, events []models.CalendarEvent, month time.Month) []models.MonthlyReport {
	reports := make([]models.MonthlyReport, 0, len(students))
	for _, student := range students {
		studentEvents := EventsForStudent(student, events, month)

		billable := make([]models.CalendarEvent, 0, len(studentEvents))
		for _, e := range studentEvents {
			if IsBillable(e) {
				billable = append(billable, e)
			}
		}

		var total float64
		switch student.PricingModel {
		case models.PricingModelSession:
			total = float64(len(billable)) * float64(student.SessionRate)
		case models.PricingModelHourly:
			for _, e := range billable {
				total += e.Hours() * float64(student.HourlyRate)
			}
		}

		days := make([]int, 0, len(billable))
		for _, e := range billable {
			days = append(days, e.StartAt.Day())
		}
		sort.Ints(days)
		dayParts := make([]string, len(days))
		for i, d := range days {
			dayParts[i] = strconv.Itoa(d)
		}

		reports = append(reports, models.MonthlyReport{
			StudentID:     student.ID,
			ParentName:    student.ParentName,
			StudentName:   student.Name,
			ClassName:     student.ClassName,
			FeePerSession: FeePerSession(student),
			TotalSessions: len(billable),
			TotalAmount:   total,
			DayList:       strings.Join(dayParts, ", "),
			Details:       studentEvents,
		})
	}
	return reports
}

// Totals sums sessions and amounts across reports.
func Totals(reports []models.MonthlyReport) models.BillingTotals {
	var totals models.BillingTotals
	for _, r := range reports {
		totals.TotalSessions += r.TotalSessions
		totals.TotalAmount += r.TotalAmount
	}
	return totals
}

// ambiguousTitles returns titles of unlinked events matched by more
// than one student name. Substring association cannot distinguish
// nested names ("An" inside "Minh An"); the collision is surfaced, not
// resolved.
func ambiguousTitles(students []models.Student, events []models.CalendarEvent) []string {
	var titles []string
	for _, e := range events {
		if e.StudentID != nil {
			continue
		}
		matches := 0
		for _, s := range students {
			if strings.Contains(e.Title, s.Name) {
				matches++
			}
		}
		if matches > 1 {
			titles = append(titles, e.Title)
		}
	}
	return titles
}

type studentLister interface {
	List(ctx context.Context) ([]models.Student, error)
}

type monthEventLister interface {
	ListByMonth(ctx context.Context, month time.Month) ([]models.CalendarEvent, error)
}

// BillingService serves the monthly report view over the pure engine,
// with a Redis cache in front of the read path. The engine itself
// stays cacheless; the cache holds the rendered view and is dropped on
// every event mutation.
type BillingService struct {
	students studentLister
	events   monthEventLister
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewBillingService constructs the billing service. cache may be nil.
func NewBillingService(students studentLister, events monthEventLister, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *BillingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &BillingService{
		students: students,
		events:   events,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

func reportCacheKey(month time.Month) string {
	return fmt.Sprintf("billing:reports:%d", int(month))
}

// MonthlyReports loads students and the month's events and runs the
// engine. Ambiguous title matches are logged as warnings before
// computing, with first-match-wins behavior retained.
func (s *BillingService) MonthlyReports(ctx context.Context, month time.Month) (*dto.BillingReportResponse, error) {
	if month < time.January || month > time.December {
		return nil, appErrors.Clone(appErrors.ErrValidation, "month must be between 1 and 12")
	}

	if s.cache != nil {
		raw, err := s.cache.Get(ctx, reportCacheKey(month)).Bytes()
		if err == nil {
			var cached dto.BillingReportResponse
			if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
				return &cached, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn("report cache lookup failed", zap.Error(err))
		}
	}

	students, err := s.students.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	events, err := s.events.ListByMonth(ctx, month)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}

	for _, title := range ambiguousTitles(students, events) {
		s.logger.Warn("event title matches multiple students, first match wins",
			zap.String("title", title))
	}

	reports := BuildReports(students, events, month)
	resp := &dto.BillingReportResponse{
		Month:   int(month),
		Reports: reports,
		Totals:  Totals(reports),
	}

	if s.cache != nil {
		if raw, err := json.Marshal(resp); err == nil {
			if err := s.cache.Set(ctx, reportCacheKey(month), raw, s.cacheTTL).Err(); err != nil {
				s.logger.Warn("report cache write failed", zap.Error(err))
			}
		}
	}

	return resp, nil
}

// InvalidateMonth drops the cached view for a month after events change.
func (s *BillingService) InvalidateMonth(ctx context.Context, month time.Month) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, reportCacheKey(month)).Err(); err != nil {
		s.logger.Warn("report cache invalidation failed", zap.Error(err))
	}
}
