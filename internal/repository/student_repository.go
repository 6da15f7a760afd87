package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tutordesk/tuition-api/internal/models"
)

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns all students in insertion order. The roster of a single
// tutor is small; pagination is not needed here.
func (r *StudentRepository) List(ctx context.Context) ([]models.Student, error) {
	query := `SELECT id, name, parent_name, class_name, hourly_rate, session_rate, pricing_model, email, created_at, updated_at
        FROM students ORDER BY created_at ASC, id ASC`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// FindByID fetches a student by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := `SELECT id, name, parent_name, class_name, hourly_rate, session_rate, pricing_model, email, created_at, updated_at
        FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// Upsert inserts a student or refreshes an existing one. Used by the
// ingestion stand-in when seeding fixture data.
func (r *StudentRepository) Upsert(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	query := `INSERT INTO students (id, name, parent_name, class_name, hourly_rate, session_rate, pricing_model, email, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        ON CONFLICT (id) DO UPDATE SET
            name = EXCLUDED.name,
            parent_name = EXCLUDED.parent_name,
            class_name = EXCLUDED.class_name,
            hourly_rate = EXCLUDED.hourly_rate,
            session_rate = EXCLUDED.session_rate,
            pricing_model = EXCLUDED.pricing_model,
            email = EXCLUDED.email,
            updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query,
		student.ID, student.Name, student.ParentName, student.ClassName,
		student.HourlyRate, student.SessionRate, student.PricingModel, student.Email,
		now, now,
	); err != nil {
		return fmt.Errorf("upsert student: %w", err)
	}
	return nil
}
