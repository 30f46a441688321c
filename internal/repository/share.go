package repository

import (
	"context"
	"time"

	"github.com/mayankk-1803/file-store/internal/model"
)

// ShareRepository defines data access for share grants using SQL queries only.
type ShareRepository interface {
	// Create inserts a new share row and returns the stored record. The
	// share_token column carries a uniqueness constraint; a collision
	// surfaces as the driver's unique-violation error.
	Create(ctx context.Context, s *model.Share) (*model.Share, error)

	// FindByToken returns a share by its opaque token, regardless of state.
	FindByToken(ctx context.Context, token string) (*model.Share, error)

	// ListByGrantor returns all shares issued by grantorID joined with
	// document display metadata, newest first.
	ListByGrantor(ctx context.Context, grantorID string) ([]model.GrantedShare, error)

	// ListByRecipient returns all shares addressed to the user (by id or
	// e-mail) joined with document metadata and grantor identity, newest
	// first. Expired and revoked shares are included.
	ListByRecipient(ctx context.Context, userID, email string) ([]model.ReceivedShare, error)

	// Deactivate soft-revokes a share scoped to its grantor and returns the
	// number of rows touched (0 when absent or not owned).
	Deactivate(ctx context.Context, id, grantorID string) (int64, error)

	// DeleteByDocument removes every share referencing the document.
	DeleteByDocument(ctx context.Context, documentID string) error

	// CountActiveByGrantor returns the number of active shares issued by the
	// grantor.
	CountActiveByGrantor(ctx context.Context, grantorID string) (int, error)

	// RecordAccess increments the access counter and stamps last access.
	RecordAccess(ctx context.Context, id string, at time.Time) error
}
