package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/tutordesk/tuition-api/internal/models"
)

// EventRepository manages persistence for calendar events.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = "id, title, start_at, end_at, description, student_id, tags, status, created_at, updated_at"

// ListByMonth returns events whose start falls in the given calendar
// month. The year is intentionally not part of the filter; the
// deployment assumption is one academic year per database.
func (r *EventRepository) ListByMonth(ctx context.Context, month time.Month) ([]models.CalendarEvent, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE EXTRACT(MONTH FROM start_at) = $1 ORDER BY start_at ASC, id ASC`, eventColumns)
	var events []models.CalendarEvent
	if err := r.db.SelectContext(ctx, &events, query, int(month)); err != nil {
		return nil, fmt.Errorf("list events by month: %w", err)
	}
	return events, nil
}

// List returns every event ordered by start time.
func (r *EventRepository) List(ctx context.Context) ([]models.CalendarEvent, error) {
	query := fmt.Sprintf(`SELECT %s FROM events ORDER BY start_at ASC, id ASC`, eventColumns)
	var events []models.CalendarEvent
	if err := r.db.SelectContext(ctx, &events, query); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// Upsert inserts an event or refreshes it in place, as the calendar
// sync delivers the same occurrence repeatedly.
func (r *EventRepository) Upsert(ctx context.Context, event *models.CalendarEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	query := `INSERT INTO events (id, title, start_at, end_at, description, student_id, tags, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        ON CONFLICT (id) DO UPDATE SET
            title = EXCLUDED.title,
            start_at = EXCLUDED.start_at,
            end_at = EXCLUDED.end_at,
            description = EXCLUDED.description,
            student_id = EXCLUDED.student_id,
            tags = EXCLUDED.tags,
            status = EXCLUDED.status,
            updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query,
		event.ID, event.Title, event.StartAt, event.EndAt, event.Description,
		event.StudentID, pq.StringArray(event.Tags), event.Status,
		now, now,
	); err != nil {
		return fmt.Errorf("upsert event: %w", err)
	}
	return nil
}

// UpdateReconciled persists the mutation applied by the notice
// reconciliation batch: status, tags and the audited description.
func (r *EventRepository) UpdateReconciled(ctx context.Context, event models.CalendarEvent) error {
	query := `UPDATE events SET status = $2, tags = $3, description = $4, updated_at = $5 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query,
		event.ID, event.Status, pq.StringArray(event.Tags), event.Description, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update reconciled event: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("update reconciled event: event %s not found", event.ID)
	}
	return nil
}
