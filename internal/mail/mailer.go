// Package mail sends transactional notifications. Sending is always
// best-effort: callers log failures and finish their request regardless.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"
)

// Message is one outbound email.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTP delivers through a configured SMTP relay.
type SMTP struct {
	client *gomail.Client
	from   string
}

// SMTPConfig holds relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// NewSMTP constructs an SMTP mailer.
func NewSMTP(cfg SMTPConfig) (*SMTP, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Username),
		gomail.WithPassword(cfg.Password),
	}
	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mail: smtp client: %w", err)
	}
	return &SMTP{client: client, from: cfg.From}, nil
}

func (s *SMTP) Send(ctx context.Context, msg Message) error {
	m := gomail.NewMsg()
	if err := m.From(s.from); err != nil {
		return fmt.Errorf("mail: from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("mail: to address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextHTML, msg.HTMLBody)
	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("mail: send: %w", err)
	}
	return nil
}

// Disabled is the no-op mailer used when SMTP is not configured. It logs
// what would have been sent.
type Disabled struct {
	logger *slog.Logger
}

// NewDisabled constructs the no-op mailer.
func NewDisabled(logger *slog.Logger) *Disabled {
	return &Disabled{logger: logger}
}

func (d *Disabled) Send(ctx context.Context, msg Message) error {
	d.logger.Info("mail disabled, notification skipped",
		"to", msg.To,
		"subject", msg.Subject)
	return nil
}
