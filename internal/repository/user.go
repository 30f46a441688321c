package repository

import (
	"context"
	"time"

	"github.com/mayankk-1803/file-store/internal/model"
)

// UserRepository defines data access for user accounts using SQL queries only.
// No business logic here — strictly persistence operations.
type UserRepository interface {
	// Create inserts a new user record and returns the stored row.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	// FindByID returns a user by primary key.
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail returns a user by unique e-mail.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Exists reports whether a user with the given e-mail or, when non-empty,
	// national id is already registered.
	Exists(ctx context.Context, email, nationalID string) (bool, error)

	// SetOTP stores a fresh one-time code and its expiry for the user.
	SetOTP(ctx context.Context, id, code string, expiresAt time.Time) error

	// MarkVerified flips the verification flag, clears any pending one-time
	// code, and records the login timestamp.
	MarkVerified(ctx context.Context, id string, at time.Time) error

	// TouchLastLogin records a successful login.
	TouchLastLogin(ctx context.Context, id string, at time.Time) error

	// UpdateProfile updates the mutable profile fields only.
	UpdateProfile(ctx context.Context, id, name, phone string) (*model.User, error)
}
