package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mayankk-1803/file-store/internal/model"
)

var userCols = []string{"id", "name", "email", "phone", "national_id", "password_hash", "is_verified", "otp_code", "otp_expires_at", "last_login_at", "created_at"}

func TestUserPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	otpExpiry := now.Add(10 * time.Minute)
	u := &model.User{
		ID:           "user-uuid",
		Name:         "Alice",
		Email:        "a@x.com",
		PasswordHash: "$2a$10$hash",
		OTPCode:      "123456",
		OTPExpiresAt: &otpExpiry,
		CreatedAt:    now,
	}

	rows := sqlmock.NewRows(userCols).
		AddRow(u.ID, u.Name, u.Email, "", "", u.PasswordHash, false, u.OTPCode, otpExpiry, nil, now)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(u.ID, u.Name, u.Email, "", "", u.PasswordHash, false, u.OTPCode, &otpExpiry, now).
		WillReturnRows(rows)

	stored, err := repo.Create(ctx, u)

	assert.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "a@x.com", stored.Email)
	assert.False(t, stored.IsVerified)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_FindByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(userCols).
			AddRow("user-uuid", "Alice", "a@x.com", "", "", "hash", true, "", nil, nil, time.Now())

		mock.ExpectQuery("SELECT (.+) FROM users WHERE email = ?").
			WithArgs("a@x.com").
			WillReturnRows(rows)

		u, err := repo.FindByEmail(ctx, "a@x.com")

		assert.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, "user-uuid", u.ID)
		assert.True(t, u.IsVerified)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE email = ?").
			WithArgs("missing@x.com").
			WillReturnError(sql.ErrNoRows)

		u, err := repo.FindByEmail(ctx, "missing@x.com")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, u)
	})
}

func TestUserPostgres_Exists(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("a@x.com", "").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.Exists(ctx, "a@x.com", "")

	assert.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_MarkVerified(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	mock.ExpectExec("UPDATE users SET is_verified = TRUE").
		WithArgs("user-uuid", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.MarkVerified(ctx, "user-uuid", now))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_UpdateProfile(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	rows := sqlmock.NewRows(userCols).
		AddRow("user-uuid", "Alice B", "a@x.com", "555", "", "hash", true, "", nil, nil, time.Now())

	mock.ExpectQuery("UPDATE users SET name = ").
		WithArgs("user-uuid", "Alice B", "555").
		WillReturnRows(rows)

	u, err := repo.UpdateProfile(ctx, "user-uuid", "Alice B", "555")

	assert.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "Alice B", u.Name)
	assert.Equal(t, "555", u.Phone)
}
