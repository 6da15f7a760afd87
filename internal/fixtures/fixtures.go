// Package fixtures holds the demo dataset that stands in for the
// external calendar and mailbox collaborators. A real deployment would
// replace the sync step with API polling; the record shapes are the
// contract, not the values.
package fixtures

import (
	"fmt"
	"time"

	"github.com/tutordesk/tuition-api/internal/models"
)

// relDate mirrors how the calendar source emits occurrences around the
// current date, so the demo always has data in the running month.
func relDate(days, hour int) time.Time {
	d := time.Now().AddDate(0, 0, days)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.Local)
}

// Students returns the demo roster.
func Students() []models.Student {
	return []models.Student{
		{
			ID:           "s1",
			Name:         "Minh An",
			ParentName:   "Chị Lan",
			ClassName:    "8A",
			HourlyRate:   200000,
			SessionRate:  300000,
			PricingModel: models.PricingModelSession,
			Email:        "an.minh@example.com",
		},
		{
			ID:           "s2",
			Name:         "Bảo Ngọc",
			ParentName:   "Bác Nguyễn Hoàng",
			ClassName:    "7 Oxford",
			HourlyRate:   250000,
			SessionRate:  400000,
			PricingModel: models.PricingModelSession,
			Email:        "ngoc.bao@example.com",
		},
		{
			ID:           "s3",
			Name:         "Gia Huy",
			ParentName:   "Anh Tuấn",
			ClassName:    "Lý 10",
			HourlyRate:   180000,
			SessionRate:  250000,
			PricingModel: models.PricingModelHourly,
			Email:        "huy.gia@example.com",
		},
	}
}

// Events returns the demo calendar. Events arrive unlinked, the way a
// raw calendar feed delivers them; the sync pass resolves student IDs.
func Events() []models.CalendarEvent {
	return []models.CalendarEvent{
		{
			ID:          "e1",
			Title:       "Toán - Minh An - Lớp 8",
			StartAt:     relDate(-10, 18),
			EndAt:       relDate(-10, 20),
			Description: "Bài tập đại số.",
			Tags:        []string{},
			Status:      models.EventStatusCompleted,
		},
		{
			ID:          "e2",
			Title:       "Toán - Minh An - Lớp 8",
			StartAt:     relDate(-3, 18),
			EndAt:       relDate(-3, 20),
			Description: "Hình học #trial",
			Tags:        []string{models.TagTrial},
			Status:      models.EventStatusTrial,
		},
		{
			ID:      "e3",
			Title:   "Toán - Minh An - Lớp 8",
			StartAt: relDate(2, 18),
			EndAt:   relDate(2, 20),
			Tags:    []string{},
			Status:  models.EventStatusScheduled,
		},
		{
			ID:      "e4",
			Title:   "Tiếng Anh - Bảo Ngọc",
			StartAt: relDate(-8, 9),
			EndAt:   relDate(-8, 10),
			Tags:    []string{},
			Status:  models.EventStatusCompleted,
		},
		{
			// The mailbox holds a sick notice for this one; it stays
			// COMPLETED until a reconcile scan picks the notice up.
			ID:      "e5",
			Title:   "Tiếng Anh - Bảo Ngọc",
			StartAt: relDate(-1, 9),
			EndAt:   relDate(-1, 10),
			Tags:    []string{},
			Status:  models.EventStatusCompleted,
		},
		{
			ID:          "e6",
			Title:       "Lý - Gia Huy",
			StartAt:     relDate(-5, 14),
			EndAt:       relDate(-5, 16),
			Description: "Nghỉ ốm #cancelled",
			Tags:        []string{models.TagCancelled},
			Status:      models.EventStatusCancelled,
		},
	}
}

// Emails returns the demo mailbox.
func Emails() []models.Email {
	yesterday := relDate(-1, 0)
	return []models.Email{
		{
			ID:      "m1",
			Subject: "Xin phép nghỉ học - Bảo Ngọc",
			Snippet: fmt.Sprintf("Chào thầy, hôm qua (ngày %02d/%02d/%d) Bảo Ngọc bị sốt nên con không tham gia lớp Tiếng Anh được ạ. Gia đình xin phép nghỉ buổi này.",
				yesterday.Day(), int(yesterday.Month()), yesterday.Year()),
			Date:   relDate(0, 8),
			Sender: "phuhuynh@example.com",
			Labels: []string{"Class-Notice", "Inbox"},
		},
		{
			ID:      "m2",
			Subject: "Đổi lịch học Minh An",
			Snippet: "Thầy ơi, buổi học Toán thứ 3 tuần sau cho Minh An xin chuyển sang thứ 5 được không ạ?",
			Date:    relDate(-2, 10),
			Sender:  "me.minhan@example.com",
			Labels:  []string{"Class-Notice"},
		},
	}
}
