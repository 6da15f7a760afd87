package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutordesk/tuition-api/internal/models"
)

func TestEmailRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEmailRepository(db)

	rows := sqlmock.NewRows([]string{"id", "subject", "snippet", "date", "sender", "labels", "created_at"}).
		AddRow("m1", "Xin phép nghỉ học - Bảo Ngọc", "Gia đình xin phép nghỉ buổi này.", time.Now(), "phuhuynh@example.com", pq.StringArray{"Class-Notice", "Inbox"}, time.Now())
	mock.ExpectQuery("SELECT id, subject, snippet, date, sender, labels, created_at FROM emails").
		WillReturnRows(rows)

	emails, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, emails, 1)
	assert.Equal(t, "Xin phép nghỉ học - Bảo Ngọc", emails[0].Subject)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmailRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEmailRepository(db)

	mock.ExpectExec("INSERT INTO emails").
		WithArgs(sqlmock.AnyArg(), "Đổi lịch học Minh An", sqlmock.AnyArg(), sqlmock.AnyArg(), "me.minhan@example.com", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	email := &models.Email{
		Subject: "Đổi lịch học Minh An",
		Snippet: "Xin chuyển buổi Toán sang thứ 5.",
		Date:    time.Now(),
		Sender:  "me.minhan@example.com",
		Labels:  pq.StringArray{"Class-Notice"},
	}
	require.NoError(t, repo.Upsert(context.Background(), email))
	assert.NotEmpty(t, email.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
