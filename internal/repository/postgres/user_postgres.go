package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/mayankk-1803/file-store/internal/model"
	"github.com/mayankk-1803/file-store/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

const userColumns = `id, name, email, phone, COALESCE(national_id, ''), password_hash, is_verified, COALESCE(otp_code, ''), otp_expires_at, last_login_at, created_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	if err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Phone,
		&u.NationalID,
		&u.PasswordHash,
		&u.IsVerified,
		&u.OTPCode,
		&u.OTPExpiresAt,
		&u.LastLoginAt,
		&u.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user row and returns the stored record.
func (r *UserPostgres) Create(ctx context.Context, u *model.User) (*model.User, error) {
	const q = `
		INSERT INTO users (id, name, email, phone, national_id, password_hash, is_verified, otp_code, otp_expires_at, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, NULLIF($8, ''), $9, $10)
		RETURNING ` + userColumns
	row := r.db.QueryRowContext(ctx, q,
		u.ID,
		u.Name,
		u.Email,
		u.Phone,
		u.NationalID,
		u.PasswordHash,
		u.IsVerified,
		u.OTPCode,
		u.OTPExpiresAt,
		u.CreatedAt,
	)
	return scanUser(row)
}

// FindByID fetches a single user by primary key.
func (r *UserPostgres) FindByID(ctx context.Context, id string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, id))
}

// FindByEmail fetches a single user by unique e-mail.
func (r *UserPostgres) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, email))
}

// Exists reports whether the e-mail or national id is already taken.
func (r *UserPostgres) Exists(ctx context.Context, email, nationalID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 OR ($2 <> '' AND national_id = $2))`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, email, nationalID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// SetOTP stores a fresh one-time code and its expiry.
func (r *UserPostgres) SetOTP(ctx context.Context, id, code string, expiresAt time.Time) error {
	const q = `UPDATE users SET otp_code = $2, otp_expires_at = $3 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, code, expiresAt)
	return err
}

// MarkVerified flips the verification flag, clears the pending code, and
// records the login timestamp in one statement.
func (r *UserPostgres) MarkVerified(ctx context.Context, id string, at time.Time) error {
	const q = `UPDATE users SET is_verified = TRUE, otp_code = NULL, otp_expires_at = NULL, last_login_at = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, at)
	return err
}

// TouchLastLogin records a successful login.
func (r *UserPostgres) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	const q = `UPDATE users SET last_login_at = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, at)
	return err
}

// UpdateProfile updates the mutable profile fields and returns the row.
func (r *UserPostgres) UpdateProfile(ctx context.Context, id, name, phone string) (*model.User, error) {
	const q = `
		UPDATE users SET name = $2, phone = $3
		WHERE id = $1
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRowContext(ctx, q, id, name, phone))
}
