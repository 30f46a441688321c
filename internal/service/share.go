package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mayankk-1803/file-store/internal/auth"
	appmail "github.com/mayankk-1803/file-store/internal/mail"
	"github.com/mayankk-1803/file-store/internal/model"
	"github.com/mayankk-1803/file-store/internal/repository"
	"github.com/mayankk-1803/file-store/internal/storage"
)

// IssueInput carries a share-creation request.
type IssueInput struct {
	GrantorID      string
	DocumentID     string
	RecipientEmail string
	Permission     string
	ExpiresInDays  *int
}

// SharedOverview groups both directions of sharing for one user.
type SharedOverview struct {
	SharedByMe   []model.GrantedShare  `json:"sharedByMe"`
	SharedWithMe []model.ReceivedShare `json:"sharedWithMe"`
}

// ShareService defines the share-grant use cases. A share token is a bearer
// capability: once issued, resolving it requires no account.
type ShareService interface {
	// Issue creates an active share for a document owned by the grantor and
	// sends a best-effort notification to the recipient.
	Issue(ctx context.Context, in IssueInput) (*model.Share, error)

	// Resolve exchanges a share token for the document and its payload,
	// provided the share is active, unexpired, and carries the required
	// capability. Revoked, expired, and absent tokens are indistinguishable.
	// The caller must close the reader.
	Resolve(ctx context.Context, token, required string) (*model.Document, io.ReadCloser, error)

	// ListShared returns the shares the user issued and the shares addressed
	// to them, both newest first, with derived status populated.
	ListShared(ctx context.Context, userID, email string) (*SharedOverview, error)

	// Revoke soft-deactivates a share issued by the grantor. The audit trail
	// (access counter, timestamps) survives revocation.
	Revoke(ctx context.Context, grantorID, shareID string) error
}

type shareService struct {
	shares         repository.ShareRepository
	docs           repository.DocumentRepository
	users          repository.UserRepository
	store          storage.Storage
	mailer         appmail.Mailer
	frontendOrigin string
	now            func() time.Time
}

// NewShareService constructs a ShareService. frontendOrigin is the base URL
// embedded into notification links.
func NewShareService(shares repository.ShareRepository, docs repository.DocumentRepository, users repository.UserRepository, store storage.Storage, mailer appmail.Mailer, frontendOrigin string) ShareService {
	return &shareService{
		shares:         shares,
		docs:           docs,
		users:          users,
		store:          store,
		mailer:         mailer,
		frontendOrigin: strings.TrimRight(frontendOrigin, "/"),
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (s *shareService) Issue(ctx context.Context, in IssueInput) (*model.Share, error) {
	in.RecipientEmail = strings.ToLower(strings.TrimSpace(in.RecipientEmail))

	var v validate
	if _, err := uuid.Parse(in.DocumentID); err != nil {
		v.addf(false, "documentId must be a valid uuid")
	}
	if _, err := mail.ParseAddress(in.RecipientEmail); err != nil {
		v.addf(false, "a valid recipient email is required")
	}
	v.addf(model.ValidPermission(in.Permission), "permissions must be view or download")
	if in.ExpiresInDays != nil {
		v.addf(*in.ExpiresInDays > 0, "expiresIn must be a positive number of days")
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	doc, err := s.docs.FindByOwner(ctx, in.DocumentID, in.GrantorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	now := s.now()
	var expiresAt *time.Time
	if in.ExpiresInDays != nil {
		t := now.AddDate(0, 0, *in.ExpiresInDays)
		expiresAt = &t
	}

	// Resolve the recipient to an account when one exists, so their
	// "shared with me" listing matches by id as well as by e-mail.
	var recipientID *string
	if recipient, err := s.users.FindByEmail(ctx, in.RecipientEmail); err == nil {
		recipientID = &recipient.ID
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("resolve recipient: %w", err)
	}

	share := &model.Share{
		ID:             uuid.New().String(),
		DocumentID:     in.DocumentID,
		GrantorID:      in.GrantorID,
		RecipientEmail: in.RecipientEmail,
		RecipientID:    recipientID,
		Permission:     in.Permission,
		ExpiresAt:      expiresAt,
		IsActive:       true,
		CreatedAt:      now,
	}

	stored, err := s.insertWithFreshToken(ctx, share)
	if err != nil {
		return nil, err
	}
	stored.DerivedStatus = stored.Status(now)

	// Notification failure never fails the issuance.
	s.notify(ctx, in.GrantorID, stored, doc.Title)

	return stored, nil
}

// insertWithFreshToken generates a token and inserts the share. The token
// space makes collisions practically impossible, but the unique constraint
// is authoritative; a collision gets exactly one retry with a new token.
func (s *shareService) insertWithFreshToken(ctx context.Context, share *model.Share) (*model.Share, error) {
	for attempt := 0; ; attempt++ {
		token, err := auth.NewShareToken()
		if err != nil {
			return nil, fmt.Errorf("generate share token: %w", err)
		}
		share.Token = token

		stored, err := s.shares.Create(ctx, share)
		if err == nil {
			return stored, nil
		}
		var pgErr *pgconn.PgError
		if attempt == 0 && errors.As(err, &pgErr) && pgErr.Code == "23505" {
			continue
		}
		return nil, fmt.Errorf("save share: %w", err)
	}
}

func (s *shareService) notify(ctx context.Context, grantorID string, share *model.Share, documentTitle string) {
	grantorName := "Someone"
	if grantor, err := s.users.FindByID(ctx, grantorID); err == nil {
		grantorName = grantor.Name
	}
	shareURL := fmt.Sprintf("%s/shared/%s", s.frontendOrigin, share.Token)
	if err := s.mailer.SendShareNotification(ctx, share.RecipientEmail, documentTitle, grantorName, shareURL); err != nil {
		log.Printf("share notification to %s failed: %v", share.RecipientEmail, err)
	}
}

func (s *shareService) Resolve(ctx context.Context, token, required string) (*model.Document, io.ReadCloser, error) {
	if token == "" || !model.ValidPermission(required) {
		return nil, nil, ErrNotFound
	}

	share, err := s.shares.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	now := s.now()
	if !share.Usable(now) {
		return nil, nil, ErrNotFound
	}
	if !share.Allows(required) {
		return nil, nil, ErrForbidden
	}

	doc, err := s.docs.FindByID(ctx, share.DocumentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	rc, _, err := s.store.Get(ctx, doc.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("read payload: %w", err)
	}

	// Analytics bookkeeping; a failure here never blocks serving content.
	if err := s.shares.RecordAccess(ctx, share.ID, now); err != nil {
		log.Printf("record share access %s failed: %v", share.ID, err)
	}

	return doc, rc, nil
}

func (s *shareService) ListShared(ctx context.Context, userID, email string) (*SharedOverview, error) {
	granted, err := s.shares.ListByGrantor(ctx, userID)
	if err != nil {
		return nil, err
	}
	received, err := s.shares.ListByRecipient(ctx, userID, email)
	if err != nil {
		return nil, err
	}

	now := s.now()
	for i := range granted {
		granted[i].DerivedStatus = granted[i].Status(now)
	}
	for i := range received {
		received[i].DerivedStatus = received[i].Status(now)
	}
	return &SharedOverview{SharedByMe: granted, SharedWithMe: received}, nil
}

func (s *shareService) Revoke(ctx context.Context, grantorID, shareID string) error {
	if _, err := uuid.Parse(shareID); err != nil {
		return &ValidationError{Violations: []string{"share id must be a valid uuid"}}
	}
	affected, err := s.shares.Deactivate(ctx, shareID, grantorID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
