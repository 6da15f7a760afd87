package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutordesk/tuition-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestStudentRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "parent_name", "class_name", "hourly_rate", "session_rate", "pricing_model", "email", "created_at", "updated_at"}).
		AddRow("s1", "Minh An", "Chị Lan", "8A", 200000, 300000, "SESSION", "an.minh@example.com", time.Now(), time.Now()).
		AddRow("s3", "Gia Huy", "Anh Tuấn", "Lý 10", 180000, 250000, "HOURLY", "huy.gia@example.com", time.Now(), time.Now())
	mock.ExpectQuery("SELECT id, name, parent_name, class_name, hourly_rate, session_rate, pricing_model, email, created_at, updated_at").
		WillReturnRows(rows)

	students, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "Minh An", students[0].Name)
	assert.Equal(t, models.PricingModelHourly, students[1].PricingModel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("INSERT INTO students").
		WithArgs(sqlmock.AnyArg(), "Minh An", "Chị Lan", "8A", int64(200000), int64(300000), models.PricingModelSession, "an.minh@example.com", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	student := &models.Student{
		Name:         "Minh An",
		ParentName:   "Chị Lan",
		ClassName:    "8A",
		HourlyRate:   200000,
		SessionRate:  300000,
		PricingModel: models.PricingModelSession,
		Email:        "an.minh@example.com",
	}
	require.NoError(t, repo.Upsert(context.Background(), student))
	assert.NotEmpty(t, student.ID, "upsert assigns an ID when missing")
	assert.NoError(t, mock.ExpectationsWereMet())
}
