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

// EmailRepository manages persistence for inbound notices. Notices are
// read-only input to the analyzer and are never mutated after sync.
type EmailRepository struct {
	db *sqlx.DB
}

// NewEmailRepository constructs an EmailRepository.
func NewEmailRepository(db *sqlx.DB) *EmailRepository {
	return &EmailRepository{db: db}
}

// List returns all notices in mailbox order (oldest first). The
// reconcile batch depends on a stable processing order.
func (r *EmailRepository) List(ctx context.Context) ([]models.Email, error) {
	query := `SELECT id, subject, snippet, date, sender, labels, created_at FROM emails ORDER BY date ASC, id ASC`
	var emails []models.Email
	if err := r.db.SelectContext(ctx, &emails, query); err != nil {
		return nil, fmt.Errorf("list emails: %w", err)
	}
	return emails, nil
}

// Upsert inserts a notice or refreshes it, mirroring mailbox sync.
func (r *EmailRepository) Upsert(ctx context.Context, email *models.Email) error {
	if email.ID == "" {
		email.ID = uuid.NewString()
	}
	query := `INSERT INTO emails (id, subject, snippet, date, sender, labels, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (id) DO UPDATE SET
            subject = EXCLUDED.subject,
            snippet = EXCLUDED.snippet,
            date = EXCLUDED.date,
            sender = EXCLUDED.sender,
            labels = EXCLUDED.labels`
	if _, err := r.db.ExecContext(ctx, query,
		email.ID, email.Subject, email.Snippet, email.Date, email.Sender,
		pq.StringArray(email.Labels), time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("upsert email: %w", err)
	}
	return nil
}
