package models

import (
	"time"

	"github.com/lib/pq"
)

// EventStatus tracks the lifecycle of a calendar event.
type EventStatus string

const (
	EventStatusScheduled EventStatus = "SCHEDULED"
	EventStatusCompleted EventStatus = "COMPLETED"
	EventStatusCancelled EventStatus = "CANCELLED"
	EventStatusTrial     EventStatus = "TRIAL"
	EventStatusPaid      EventStatus = "PAID"
)

// Tags carried over from the calendar source. A tag can mark an event
// whose status field has not been updated yet, so billability checks
// both channels.
const (
	TagTrial     = "#trial"
	TagCancelled = "#cancelled"
)

// CalendarEvent is one scheduled or historical class occurrence synced
// from the external calendar.
//
// StudentID is populated at ingestion when the event can be linked to a
// student. Legacy events arrive unlinked (nil) and fall back to a
// title-substring match against the student name.
type CalendarEvent struct {
	ID          string         `db:"id" json:"id"`
	Title       string         `db:"title" json:"title"`
	StartAt     time.Time      `db:"start_at" json:"start"`
	EndAt       time.Time      `db:"end_at" json:"end"`
	Description string         `db:"description" json:"description"`
	StudentID   *string        `db:"student_id" json:"student_id,omitempty"`
	Tags        pq.StringArray `db:"tags" json:"tags"`
	Status      EventStatus    `db:"status" json:"status"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// HasTag reports whether the event carries the given tag.
func (e CalendarEvent) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Hours returns the event duration in fractional hours. End before
// start yields a negative value; the engine deliberately does not
// validate this and lets it subtract from an hourly total.
func (e CalendarEvent) Hours() float64 {
	return e.EndAt.Sub(e.StartAt).Hours()
}
