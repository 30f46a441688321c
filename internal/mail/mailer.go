package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/mayankk-1803/file-store/internal/config"
)

// Mailer dispatches transactional mail. Both operations are best-effort from
// the caller's point of view: services log failures and keep going.
type Mailer interface {
	// SendOTP delivers a verification code to a freshly registered account.
	SendOTP(ctx context.Context, to, code, validFor string) error
	// SendShareNotification tells a recipient that a document was shared with
	// them, including the capability URL embedding the share token.
	SendShareNotification(ctx context.Context, to, documentTitle, sharedBy, shareURL string) error
}

// SMTPMailer implements Mailer over a single reusable SMTP client.
type SMTPMailer struct {
	client *gomail.Client
	from   string
}

// NewSMTP builds the SMTP client once at startup; it is safe for concurrent
// use by request handlers.
func NewSMTP(cfg config.SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}

	opts := []gomail.Option{gomail.WithPort(cfg.Port)}
	if cfg.User != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.User),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return &SMTPMailer{client: client, from: cfg.From}, nil
}

var _ Mailer = (*SMTPMailer)(nil)

func (m *SMTPMailer) SendOTP(ctx context.Context, to, code, validFor string) error {
	email := BuildOTPEmail(OTPEmailData{Code: code, ValidFor: validFor})
	return m.send(ctx, to, email)
}

func (m *SMTPMailer) SendShareNotification(ctx context.Context, to, documentTitle, sharedBy, shareURL string) error {
	email := BuildShareEmail(ShareEmailData{
		DocumentTitle: documentTitle,
		SharedBy:      sharedBy,
		ShareURL:      shareURL,
	})
	return m.send(ctx, to, email)
}

func (m *SMTPMailer) send(ctx context.Context, to string, email Email) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set to: %w", err)
	}
	msg.Subject(email.Subject)
	msg.SetBodyString(gomail.TypeTextPlain, email.TextBody)
	msg.AddAlternativeString(gomail.TypeTextHTML, email.HTMLBody)

	return m.client.DialAndSendWithContext(ctx, msg)
}
