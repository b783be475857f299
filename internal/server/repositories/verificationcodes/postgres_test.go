package verificationcodes

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fashionguide/chat-backend/internal/common"
	"github.com/fashionguide/chat-backend/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codeCols = []string{"id", "user_id", "code", "expires_at", "is_used", "created_at"}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	expires := time.Now().Add(15 * time.Minute)
	mock.ExpectQuery("INSERT INTO verification_codes").
		WillReturnRows(sqlmock.NewRows(codeCols).
			AddRow("c1", "u1", "012345", expires, false, time.Now()))

	code, err := repo.Create(context.Background(), &models.VerificationCode{
		UserID:    "u1",
		Code:      "012345",
		ExpiresAt: expires,
	})
	require.NoError(t, err)
	assert.Equal(t, "c1", code.ID)
	assert.Equal(t, "012345", code.Code, "leading zeros must survive storage")
	assert.False(t, code.IsUsed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLatestActive(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM verification_codes").
		WithArgs("u1", now).
		WillReturnRows(sqlmock.NewRows(codeCols).
			AddRow("c2", "u1", "654321", now.Add(10*time.Minute), false, now))

	code, err := repo.GetLatestActive(context.Background(), "u1", now)
	require.NoError(t, err)
	assert.Equal(t, "c2", code.ID)
	assert.Equal(t, "654321", code.Code)
}

func TestGetLatestActive_NoneLeft(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM verification_codes").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetLatestActive(context.Background(), "u1", time.Now())
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMarkUsed(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	mock.ExpectExec("UPDATE verification_codes SET is_used = true").
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkUsed(context.Background(), "c1"))
}

func TestMarkUsed_AlreadyUsed(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	mock.ExpectExec("UPDATE verification_codes SET is_used = true").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkUsed(context.Background(), "c1")
	require.ErrorIs(t, err, common.ErrorNotFound)
}
