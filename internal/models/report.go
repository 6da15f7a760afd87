package models

// MonthlyReport is the fully derived per-student billing summary for
// one month. Reports are a view, not a store: every engine run
// recomputes them wholesale and TotalAmount is never set independently
// of Details and the pricing model.
type MonthlyReport struct {
	StudentID     string          `json:"student_id"`
	ParentName    string          `json:"parent_name"`
	StudentName   string          `json:"student_name"`
	ClassName     string          `json:"class_name"`
	FeePerSession float64         `json:"fee_per_session"`
	TotalSessions int             `json:"total_sessions"`
	TotalAmount   float64         `json:"total_amount"`
	DayList       string          `json:"day_list"`
	Details       []CalendarEvent `json:"details"`
}

// BillingTotals aggregates the bottom line across all reports.
type BillingTotals struct {
	TotalSessions int     `json:"total_sessions"`
	TotalAmount   float64 `json:"total_amount"`
}
