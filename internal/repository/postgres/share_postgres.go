package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/mayankk-1803/file-store/internal/model"
	"github.com/mayankk-1803/file-store/internal/repository"
)

// SharePostgres is a PostgreSQL implementation of repository.ShareRepository.
type SharePostgres struct {
	db *sql.DB
}

// NewSharePostgres creates a new SharePostgres repository.
func NewSharePostgres(db *sql.DB) *SharePostgres {
	return &SharePostgres{db: db}
}

var _ repository.ShareRepository = (*SharePostgres)(nil)

const shareColumns = `id, document_id, grantor_id, recipient_email, recipient_id, permission, expires_at, is_active, access_count, last_accessed_at, share_token, created_at`

func scanShare(row interface{ Scan(...any) error }, extra ...any) (*model.Share, error) {
	var s model.Share
	dest := []any{
		&s.ID,
		&s.DocumentID,
		&s.GrantorID,
		&s.RecipientEmail,
		&s.RecipientID,
		&s.Permission,
		&s.ExpiresAt,
		&s.IsActive,
		&s.AccessCount,
		&s.LastAccessedAt,
		&s.Token,
		&s.CreatedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new share row and returns the stored record. A token
// collision surfaces as the driver's unique-violation error.
func (r *SharePostgres) Create(ctx context.Context, s *model.Share) (*model.Share, error) {
	const q = `
		INSERT INTO shares (id, document_id, grantor_id, recipient_email, recipient_id, permission, expires_at, is_active, access_count, share_token, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + shareColumns
	row := r.db.QueryRowContext(ctx, q,
		s.ID,
		s.DocumentID,
		s.GrantorID,
		s.RecipientEmail,
		s.RecipientID,
		s.Permission,
		s.ExpiresAt,
		s.IsActive,
		s.AccessCount,
		s.Token,
		s.CreatedAt,
	)
	return scanShare(row)
}

// FindByToken fetches a share by its opaque token regardless of state.
func (r *SharePostgres) FindByToken(ctx context.Context, token string) (*model.Share, error) {
	const q = `SELECT ` + shareColumns + ` FROM shares WHERE share_token = $1`
	return scanShare(r.db.QueryRowContext(ctx, q, token))
}

// ListByGrantor returns shares issued by grantorID joined with document
// display metadata, newest first.
func (r *SharePostgres) ListByGrantor(ctx context.Context, grantorID string) ([]model.GrantedShare, error) {
	const q = `
		SELECT s.id, s.document_id, s.grantor_id, s.recipient_email, s.recipient_id, s.permission, s.expires_at, s.is_active, s.access_count, s.last_accessed_at, s.share_token, s.created_at,
		       d.title, d.category, d.created_at
		FROM shares s
		JOIN documents d ON d.id = s.document_id
		WHERE s.grantor_id = $1
		ORDER BY s.created_at DESC, s.id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, grantorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.GrantedShare, 0)
	for rows.Next() {
		var g model.GrantedShare
		s, err := scanShare(rows, &g.DocumentTitle, &g.DocumentCategory, &g.DocumentCreatedAt)
		if err != nil {
			return nil, err
		}
		g.Share = *s
		items = append(items, g)
	}
	return items, rows.Err()
}

// ListByRecipient returns shares addressed to the user by id or e-mail,
// including expired and revoked ones, newest first.
func (r *SharePostgres) ListByRecipient(ctx context.Context, userID, email string) ([]model.ReceivedShare, error) {
	const q = `
		SELECT s.id, s.document_id, s.grantor_id, s.recipient_email, s.recipient_id, s.permission, s.expires_at, s.is_active, s.access_count, s.last_accessed_at, s.share_token, s.created_at,
		       d.title, d.category, d.created_at,
		       u.name, u.email
		FROM shares s
		JOIN documents d ON d.id = s.document_id
		JOIN users u ON u.id = s.grantor_id
		WHERE s.recipient_id = NULLIF($1, '')::uuid OR s.recipient_email = $2
		ORDER BY s.created_at DESC, s.id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, userID, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ReceivedShare, 0)
	for rows.Next() {
		var rs model.ReceivedShare
		s, err := scanShare(rows, &rs.DocumentTitle, &rs.DocumentCategory, &rs.DocumentCreatedAt, &rs.GrantorName, &rs.GrantorEmail)
		if err != nil {
			return nil, err
		}
		rs.Share = *s
		items = append(items, rs)
	}
	return items, rows.Err()
}

// Deactivate soft-revokes a share scoped to its grantor.
func (r *SharePostgres) Deactivate(ctx context.Context, id, grantorID string) (int64, error) {
	const q = `UPDATE shares SET is_active = FALSE WHERE id = $1 AND grantor_id = $2`
	res, err := r.db.ExecContext(ctx, q, id, grantorID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteByDocument removes every share referencing the document.
func (r *SharePostgres) DeleteByDocument(ctx context.Context, documentID string) error {
	const q = `DELETE FROM shares WHERE document_id = $1`
	_, err := r.db.ExecContext(ctx, q, documentID)
	return err
}

// CountActiveByGrantor returns the number of active shares issued by the grantor.
func (r *SharePostgres) CountActiveByGrantor(ctx context.Context, grantorID string) (int, error) {
	const q = `SELECT COUNT(*) FROM shares WHERE grantor_id = $1 AND is_active = TRUE`
	var n int
	if err := r.db.QueryRowContext(ctx, q, grantorID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// RecordAccess increments the access counter and stamps last access.
// Concurrent increments race last-write-wins on the timestamp only; the
// counter itself is incremented in SQL.
func (r *SharePostgres) RecordAccess(ctx context.Context, id string, at time.Time) error {
	const q = `UPDATE shares SET access_count = access_count + 1, last_accessed_at = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, at)
	return err
}
