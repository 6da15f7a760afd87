package models

import "time"

// PricingModel selects how a student's monthly total is computed.
type PricingModel string

const (
	// PricingModelHourly bills rate × event duration, per event.
	PricingModelHourly PricingModel = "HOURLY"
	// PricingModelSession bills a flat rate per counted session.
	PricingModelSession PricingModel = "SESSION"
)

// Student is a tutee registered with the tutor. Rates are whole đồng.
// Both rates are always present: the one matching PricingModel is
// authoritative, the other feeds the displayed per-session estimate.
type Student struct {
	ID           string       `db:"id" json:"id"`
	Name         string       `db:"name" json:"name"`
	ParentName   string       `db:"parent_name" json:"parent_name"`
	ClassName    string       `db:"class_name" json:"class_name"`
	HourlyRate   int64        `db:"hourly_rate" json:"hourly_rate"`
	SessionRate  int64        `db:"session_rate" json:"session_rate"`
	PricingModel PricingModel `db:"pricing_model" json:"pricing_model"`
	Email        string       `db:"email" json:"email"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}
