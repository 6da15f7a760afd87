package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tutordesk/tuition-api/internal/models"
)

func strPtr(s string) *string { return &s }

func event(id, title string, start, end time.Time, status models.EventStatus, tags ...string) models.CalendarEvent {
	return models.CalendarEvent{
		ID:      id,
		Title:   title,
		StartAt: start,
		EndAt:   end,
		Tags:    tags,
		Status:  status,
	}
}

func octDate(day, hour int) time.Time {
	return time.Date(2024, time.October, day, hour, 0, 0, 0, time.UTC)
}

func TestIsBillable(t *testing.T) {
	start := octDate(6, 18)
	end := octDate(6, 20)

	tests := []struct {
		name string
		ev   models.CalendarEvent
		want bool
	}{
		{"completed", event("e", "t", start, end, models.EventStatusCompleted), true},
		{"future scheduled bills", event("e", "t", start, end, models.EventStatusScheduled), true},
		{"paid", event("e", "t", start, end, models.EventStatusPaid), true},
		{"trial tag only", event("e", "t", start, end, models.EventStatusCompleted, models.TagTrial), false},
		{"trial status only", event("e", "t", start, end, models.EventStatusTrial), false},
		{"cancelled tag only", event("e", "t", start, end, models.EventStatusCompleted, models.TagCancelled), false},
		{"cancelled status only", event("e", "t", start, end, models.EventStatusCancelled), false},
		{"both channels set", event("e", "t", start, end, models.EventStatusCancelled, models.TagCancelled), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBillable(tt.ev))
		})
	}
}

func TestMatchesStudent(t *testing.T) {
	student := models.Student{ID: "s1", Name: "Minh An"}

	linked := event("e1", "Unrelated title", octDate(1, 18), octDate(1, 20), models.EventStatusCompleted)
	linked.StudentID = strPtr("s1")
	assert.True(t, MatchesStudent(student, linked), "explicit link wins regardless of title")

	linkedElsewhere := event("e2", "Toán - Minh An", octDate(1, 18), octDate(1, 20), models.EventStatusCompleted)
	linkedElsewhere.StudentID = strPtr("s2")
	assert.False(t, MatchesStudent(student, linkedElsewhere), "a linked event never falls back to the title")

	unlinked := event("e3", "Toán - Minh An - Lớp 8", octDate(1, 18), octDate(1, 20), models.EventStatusCompleted)
	assert.True(t, MatchesStudent(student, unlinked))

	// substring match is case sensitive
	lower := event("e4", "toán - minh an", octDate(1, 18), octDate(1, 20), models.EventStatusCompleted)
	assert.False(t, MatchesStudent(student, lower))
}

func TestEventsForStudentIgnoresYear(t *testing.T) {
	student := models.Student{ID: "s1", Name: "Minh An"}
	events := []models.CalendarEvent{
		event("e1", "Minh An", octDate(6, 18), octDate(6, 20), models.EventStatusCompleted),
		event("e2", "Minh An", time.Date(2023, time.October, 13, 18, 0, 0, 0, time.UTC), time.Date(2023, time.October, 13, 20, 0, 0, 0, time.UTC), models.EventStatusCompleted),
		event("e3", "Minh An", time.Date(2024, time.November, 6, 18, 0, 0, 0, time.UTC), time.Date(2024, time.November, 6, 20, 0, 0, 0, time.UTC), models.EventStatusCompleted),
	}

	matched := EventsForStudent(student, events, time.October)
	require.Len(t, matched, 2)
	assert.Equal(t, "e1", matched[0].ID)
	assert.Equal(t, "e2", matched[1].ID, "same month of a different year still counts")
}

func TestFeePerSession(t *testing.T) {
	assert.Equal(t, 300000.0, FeePerSession(models.Student{SessionRate: 300000, HourlyRate: 200000}))
	assert.Equal(t, 270000.0, FeePerSession(models.Student{SessionRate: 0, HourlyRate: 180000}), "hourly students display a 1.5x estimate")
}

func TestBuildReportsSessionPricing(t *testing.T) {
	student := models.Student{
		ID: "s1", Name: "Minh An", ParentName: "Chị Lan", ClassName: "8A",
		SessionRate: 300000, HourlyRate: 200000, PricingModel: models.PricingModelSession,
	}
	events := []models.CalendarEvent{
		event("e1", "Toán - Minh An", octDate(6, 18), octDate(6, 20), models.EventStatusCompleted),
		event("e2", "Toán - Minh An", octDate(9, 18), octDate(9, 20), models.EventStatusTrial, models.TagTrial),
		event("e3", "Toán - Minh An", octDate(13, 18), octDate(13, 20), models.EventStatusScheduled),
	}

	reports := BuildReports([]models.Student{student}, events, time.October)
	require.Len(t, reports, 1)
	r := reports[0]

	assert.Equal(t, 2, r.TotalSessions, "trial excluded, future scheduled included")
	assert.Equal(t, 600000.0, r.TotalAmount)
	assert.Equal(t, 300000.0, r.FeePerSession)
	assert.Equal(t, "6, 13", r.DayList)
	assert.Len(t, r.Details, 3, "details keep every matched event, billable or not")
}

func TestBuildReportsHourlyPricing(t *testing.T) {
	student := models.Student{
		ID: "s3", Name: "Gia Huy", HourlyRate: 180000, SessionRate: 0,
		PricingModel: models.PricingModelHourly,
	}
	events := []models.CalendarEvent{
		event("e1", "Lý - Gia Huy", octDate(7, 14), octDate(7, 16), models.EventStatusCompleted),
		event("e2", "Lý - Gia Huy", octDate(14, 14), octDate(14, 16), models.EventStatusCompleted),
	}

	reports := BuildReports([]models.Student{student}, events, time.October)
	require.Len(t, reports, 1)

	assert.Equal(t, 720000.0, reports[0].TotalAmount, "2 sessions x 2h x 180000")
	assert.Equal(t, 2, reports[0].TotalSessions)
	assert.Equal(t, 270000.0, reports[0].FeePerSession)
}

func TestBuildReportsHourlyNegativeDuration(t *testing.T) {
	student := models.Student{
		ID: "s3", Name: "Gia Huy", HourlyRate: 180000,
		PricingModel: models.PricingModelHourly,
	}
	// end before start is not validated and subtracts from the total
	events := []models.CalendarEvent{
		event("e1", "Gia Huy", octDate(7, 14), octDate(7, 16), models.EventStatusCompleted),
		event("e2", "Gia Huy", octDate(14, 16), octDate(14, 14), models.EventStatusCompleted),
	}

	reports := BuildReports([]models.Student{student}, events, time.October)
	require.Len(t, reports, 1)
	assert.Equal(t, 0.0, reports[0].TotalAmount)
}

func TestBuildReportsDayListAscending(t *testing.T) {
	student := models.Student{ID: "s1", Name: "Minh An", SessionRate: 300000, PricingModel: models.PricingModelSession}
	events := []models.CalendarEvent{
		event("e1", "Minh An", octDate(13, 18), octDate(13, 20), models.EventStatusCompleted),
		event("e2", "Minh An", octDate(6, 18), octDate(6, 20), models.EventStatusCompleted),
		event("e3", "Minh An", octDate(7, 18), octDate(7, 20), models.EventStatusCompleted),
	}

	reports := BuildReports([]models.Student{student}, events, time.October)
	require.Len(t, reports, 1)
	assert.Equal(t, "6, 7, 13", reports[0].DayList)
}

func TestBuildReportsKeepsStudentOrderAndInputs(t *testing.T) {
	students := []models.Student{
		{ID: "s2", Name: "Bảo Ngọc", SessionRate: 400000, PricingModel: models.PricingModelSession},
		{ID: "s1", Name: "Minh An", SessionRate: 300000, PricingModel: models.PricingModelSession},
	}
	events := []models.CalendarEvent{
		event("e1", "Tiếng Anh - Bảo Ngọc", octDate(6, 9), octDate(6, 10), models.EventStatusCompleted),
		event("e2", "Toán - Minh An", octDate(7, 18), octDate(7, 20), models.EventStatusCompleted),
	}

	first := BuildReports(students, events, time.October)
	second := BuildReports(students, events, time.October)

	require.Len(t, first, 2)
	assert.Equal(t, "Bảo Ngọc", first[0].StudentName, "reports follow roster order, not activity")
	assert.Equal(t, "Minh An", first[1].StudentName)
	assert.Equal(t, first, second, "engine recomputes the same view on every call")
	assert.Equal(t, models.EventStatusCompleted, events[0].Status, "inputs are never mutated")
}

func TestBuildReportsStudentWithNoEvents(t *testing.T) {
	student := models.Student{ID: "s9", Name: "Hữu Phúc", SessionRate: 350000, PricingModel: models.PricingModelSession}

	reports := BuildReports([]models.Student{student}, nil, time.October)
	require.Len(t, reports, 1)
	assert.Equal(t, 0, reports[0].TotalSessions)
	assert.Equal(t, 0.0, reports[0].TotalAmount)
	assert.Equal(t, "", reports[0].DayList)
	assert.Empty(t, reports[0].Details)
}

func TestTotals(t *testing.T) {
	totals := Totals([]models.MonthlyReport{
		{TotalSessions: 2, TotalAmount: 600000},
		{TotalSessions: 1, TotalAmount: 400000},
		{TotalSessions: 2, TotalAmount: 720000},
	})
	assert.Equal(t, 5, totals.TotalSessions)
	assert.Equal(t, 1720000.0, totals.TotalAmount)
}

func TestAmbiguousTitles(t *testing.T) {
	students := []models.Student{
		{ID: "s1", Name: "An"},
		{ID: "s2", Name: "Minh An"},
	}
	linked := event("e2", "Toán - Minh An", octDate(7, 18), octDate(7, 20), models.EventStatusCompleted)
	linked.StudentID = strPtr("s2")
	events := []models.CalendarEvent{
		event("e1", "Toán - Minh An", octDate(6, 18), octDate(6, 20), models.EventStatusCompleted),
		linked,
	}

	titles := ambiguousTitles(students, events)
	require.Len(t, titles, 1, "linked events are no longer ambiguous")
	assert.Equal(t, "Toán - Minh An", titles[0])
}

type stubStudentLister struct {
	students []models.Student
	err      error
	calls    int
}

func (s *stubStudentLister) List(ctx context.Context) ([]models.Student, error) {
	s.calls++
	return s.students, s.err
}

type stubEventLister struct {
	events []models.CalendarEvent
	err    error
	calls  int
}

func (s *stubEventLister) ListByMonth(ctx context.Context, month time.Month) ([]models.CalendarEvent, error) {
	s.calls++
	return s.events, s.err
}

func TestMonthlyReportsRejectsInvalidMonth(t *testing.T) {
	svc := NewBillingService(&stubStudentLister{}, &stubEventLister{}, nil, 0, zap.NewNop())

	_, err := svc.MonthlyReports(context.Background(), time.Month(0))
	assert.Error(t, err)

	_, err = svc.MonthlyReports(context.Background(), time.Month(13))
	assert.Error(t, err)
}

func TestMonthlyReportsComputesView(t *testing.T) {
	students := &stubStudentLister{students: []models.Student{
		{ID: "s1", Name: "Minh An", ParentName: "Chị Lan", SessionRate: 300000, PricingModel: models.PricingModelSession},
	}}
	events := &stubEventLister{events: []models.CalendarEvent{
		event("e1", "Toán - Minh An", octDate(6, 18), octDate(6, 20), models.EventStatusCompleted),
		event("e2", "Toán - Minh An", octDate(13, 18), octDate(13, 20), models.EventStatusScheduled),
	}}
	svc := NewBillingService(students, events, nil, 0, zap.NewNop())

	view, err := svc.MonthlyReports(context.Background(), time.October)
	require.NoError(t, err)

	assert.Equal(t, 10, view.Month)
	require.Len(t, view.Reports, 1)
	assert.Equal(t, 2, view.Totals.TotalSessions)
	assert.Equal(t, 600000.0, view.Totals.TotalAmount)
}

func TestMonthlyReportsRecomputesWithoutCache(t *testing.T) {
	students := &stubStudentLister{students: []models.Student{
		{ID: "s1", Name: "Minh An", SessionRate: 300000, PricingModel: models.PricingModelSession},
	}}
	events := &stubEventLister{}
	svc := NewBillingService(students, events, nil, 0, zap.NewNop())

	_, err := svc.MonthlyReports(context.Background(), time.October)
	require.NoError(t, err)
	_, err = svc.MonthlyReports(context.Background(), time.October)
	require.NoError(t, err)

	assert.Equal(t, 2, students.calls, "no cache means a full recompute per call")
	assert.Equal(t, 2, events.calls)
}
