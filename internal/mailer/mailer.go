// Package mailer delivers outbound email over SMTP. Delivery is
// best-effort; callers log failures and never roll back state on error.
package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	pkgerrors "github.com/hosteldesk/hosteldesk-backend/pkg/errors"
)

// Sender delivers a single plain-text message.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Config carries SMTP connection settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpSender struct {
	cfg Config
}

// NewSMTPSender builds a sender backed by net/smtp.
func NewSMTPSender(cfg Config) (Sender, error) {
	if cfg.Host == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "smtp host required")
	}
	if cfg.From == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "smtp from address required")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &smtpSender{cfg: cfg}, nil
}

func (s *smtpSender) Send(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient address required")
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	msg := buildMessage(s.cfg.From, to, subject, body)
	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, msg); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send mail")
	}
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

type noopSender struct{}

// NewNoopSender returns a sender that silently drops mail. Used when SMTP
// is not configured, typically in development.
func NewNoopSender() Sender {
	return noopSender{}
}

func (noopSender) Send(context.Context, string, string, string) error {
	return nil
}
