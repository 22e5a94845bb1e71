// Package notify delivers one-time codes by email or SMS.
package notify

import (
	"context"
	"fmt"
	"time"

	"restoran/internal/config"

	"gopkg.in/gomail.v2"
)

// Dialer sends composed messages. *gomail.Dialer satisfies it.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailSender delivers codes through an SMTP server.
type EmailSender struct {
	dialer Dialer
	from   string
	ttl    time.Duration
}

// NewEmailSender creates an EmailSender for the given SMTP settings. ttl is the
// code lifetime quoted in the message.
func NewEmailSender(cfg config.SMTPConfig, ttl time.Duration) *EmailSender {
	from := cfg.Sender
	if from == "" {
		from = cfg.Username
	}
	return &EmailSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   from,
		ttl:    ttl,
	}
}

// NewEmailSenderWithDialer is used when the transport is provided by the caller.
func NewEmailSenderWithDialer(dialer Dialer, from string, ttl time.Duration) *EmailSender {
	return &EmailSender{dialer: dialer, from: from, ttl: ttl}
}

// Send emails code to the address to.
func (s *EmailSender) Send(ctx context.Context, to, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Your verification code")
	m.SetBody("text/plain", codeMessage(code, s.ttl))
	m.AddAlternative("text/html", fmt.Sprintf(
		"<p>Your verification code is <strong>%s</strong>.</p><p>It expires in %s.</p>", code, validity(s.ttl)))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}
