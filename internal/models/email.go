package models

import (
	"time"

	"github.com/lib/pq"
)

// Email is an inbound free-text notice (typically from a parent) synced
// from the external mailbox. The core never mutates it; it is input to
// the notice analyzer only.
type Email struct {
	ID        string         `db:"id" json:"id"`
	Subject   string         `db:"subject" json:"subject"`
	Snippet   string         `db:"snippet" json:"snippet"`
	Date      time.Time      `db:"date" json:"date"`
	Sender    string         `db:"sender" json:"sender"`
	Labels    pq.StringArray `db:"labels" json:"labels"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// NoticeAction is the analyzer's verdict on what a notice asks for.
type NoticeAction string

const (
	NoticeActionCancel     NoticeAction = "CANCEL"
	NoticeActionReschedule NoticeAction = "RESCHEDULE"
	NoticeActionConfirm    NoticeAction = "CONFIRM"
	NoticeActionUnknown    NoticeAction = "UNKNOWN"
)

// EmailAnalysisResult is the structured intent extracted from a notice
// by the external analyzer. RelatedStudentName is a weak reference
// resolved by substring match, not a foreign key.
type EmailAnalysisResult struct {
	RelatedStudentName *string      `json:"relatedStudentName"`
	TargetDate         *string      `json:"targetDate"` // ISO date, YYYY-MM-DD
	Action             NoticeAction `json:"action"`
	Reason             *string      `json:"reason,omitempty"`
}
