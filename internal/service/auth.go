package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mayankk-1803/file-store/internal/auth"
	appmail "github.com/mayankk-1803/file-store/internal/mail"
	"github.com/mayankk-1803/file-store/internal/model"
	"github.com/mayankk-1803/file-store/internal/repository"
)

// RegisterInput carries the registration request fields.
type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	Phone      string
	NationalID string
}

// Session is an issued credential plus the account it belongs to.
type Session struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// AuthService defines account and session use cases.
type AuthService interface {
	// Register creates an unverified account, stores a one-time code, and
	// e-mails it to the new user. The account is unusable until verified.
	Register(ctx context.Context, in RegisterInput) (*model.User, error)

	// VerifyOTP checks the pending one-time code and, on success, marks the
	// account verified and opens a session.
	VerifyOTP(ctx context.Context, email, code string) (*Session, error)

	// ResendOTP issues a fresh one-time code for an unverified account and
	// e-mails it, replacing any pending code.
	ResendOTP(ctx context.Context, email string) error

	// Login checks the password for a verified account and opens a session.
	Login(ctx context.Context, email, password string) (*Session, error)

	// Authenticate resolves a bearer token to its verified account. Every
	// failure mode collapses to ErrUnauthorized.
	Authenticate(ctx context.Context, token string) (*model.User, error)

	// Profile returns the account for the authenticated user id.
	Profile(ctx context.Context, userID string) (*model.User, error)

	// UpdateProfile changes the mutable profile fields only.
	UpdateProfile(ctx context.Context, userID, name, phone string) (*model.User, error)
}

type authService struct {
	users       repository.UserRepository
	hasher      auth.PasswordHasher
	tokens      *auth.TokenIssuer
	mailer      appmail.Mailer
	otpValidity time.Duration
	now         func() time.Time
}

// NewAuthService constructs an AuthService.
func NewAuthService(users repository.UserRepository, hasher auth.PasswordHasher, tokens *auth.TokenIssuer, mailer appmail.Mailer, otpValidity time.Duration) AuthService {
	return &authService{
		users:       users,
		hasher:      hasher,
		tokens:      tokens,
		mailer:      mailer,
		otpValidity: otpValidity,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func validEmail(s string) bool {
	a, err := mail.ParseAddress(s)
	return err == nil && a.Address == s
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	var v validate
	v.addf(in.Name != "", "name is required")
	v.addf(in.Email != "" && validEmail(in.Email), "a valid email is required")
	v.addf(len(in.Password) >= 6, "password must be at least 6 characters")
	if err := v.err(); err != nil {
		return nil, err
	}

	exists, err := s.users.Exists(ctx, in.Email, in.NationalID)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if exists {
		return nil, ErrConflict
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	code, err := auth.NewOTP()
	if err != nil {
		return nil, fmt.Errorf("generate otp: %w", err)
	}

	now := s.now()
	expires := now.Add(s.otpValidity)
	user := &model.User{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		NationalID:   in.NationalID,
		PasswordHash: digest,
		IsVerified:   false,
		OTPCode:      code,
		OTPExpiresAt: &expires,
		CreatedAt:    now,
	}
	stored, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	validFor := fmt.Sprintf("%d minutes", int(s.otpValidity.Minutes()))
	if err := s.mailer.SendOTP(ctx, stored.Email, code, validFor); err != nil {
		return nil, fmt.Errorf("send verification code: %w", err)
	}
	return stored, nil
}

func (s *authService) ResendOTP(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return &ValidationError{Violations: []string{"email is required"}}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if user.IsVerified {
		return ErrConflict
	}

	code, err := auth.NewOTP()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	expires := s.now().Add(s.otpValidity)
	if err := s.users.SetOTP(ctx, user.ID, code, expires); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	validFor := fmt.Sprintf("%d minutes", int(s.otpValidity.Minutes()))
	if err := s.mailer.SendOTP(ctx, user.Email, code, validFor); err != nil {
		return fmt.Errorf("send verification code: %w", err)
	}
	return nil
}

func (s *authService) VerifyOTP(ctx context.Context, email, code string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var v validate
	v.addf(email != "", "email is required")
	v.addf(code != "", "otp is required")
	if err := v.err(); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	now := s.now()
	if user.OTPCode == "" || user.OTPCode != code ||
		user.OTPExpiresAt == nil || !now.Before(*user.OTPExpiresAt) {
		return nil, &ValidationError{Violations: []string{"invalid or expired otp"}}
	}

	if err := s.users.MarkVerified(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("mark verified: %w", err)
	}
	user.IsVerified = true
	user.OTPCode = ""
	user.OTPExpiresAt = nil
	user.LastLoginAt = &now

	return s.openSession(user, now)
}

func (s *authService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var v validate
	v.addf(email != "", "email is required")
	v.addf(password != "", "password is required")
	if err := v.err(); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrUnauthorized
	}
	if !user.IsVerified {
		return nil, ErrNotVerified
	}

	now := s.now()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}
	user.LastLoginAt = &now

	return s.openSession(user, now)
}

func (s *authService) openSession(user *model.User, now time.Time) (*Session, error) {
	token, err := s.tokens.Issue(user.ID, now)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{Token: token, User: user}, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsVerified {
		return nil, ErrUnauthorized
	}
	return user, nil
}

func (s *authService) Profile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID, name, phone string) (*model.User, error) {
	name = strings.TrimSpace(name)
	var v validate
	v.addf(name != "", "name is required")
	if err := v.err(); err != nil {
		return nil, err
	}

	user, err := s.users.UpdateProfile(ctx, userID, name, phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}
