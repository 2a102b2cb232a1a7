package smtp

import (
	"context"
	"fmt"

	"github.com/loanlead-api/internal/config"
	"gopkg.in/gomail.v2"
)

// Mailer sends emails.
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// Dialer is the subset of gomail.Dialer used by the mailer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type mailer struct {
	dialer Dialer
	from   string
}

func NewMailer(cfg *config.Config) Mailer {
	return NewMailerWithDialer(
		gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		cfg.EmailFrom,
	)
}

// NewMailerWithDialer builds a mailer around an existing dialer.
func NewMailerWithDialer(d Dialer, from string) Mailer {
	return &mailer{dialer: d, from: from}
}

// SendEmail sends an HTML message. gomail has no context support and its dial timeout
// only bounds the connect, so the send runs in its own goroutine and SendEmail returns
// when ctx ends. An abandoned send finishes or fails in the background.
func (m *mailer) SendEmail(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	done := make(chan error, 1)
	go func() { done <- m.dialer.DialAndSend(msg) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp: send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp: send: %w", ctx.Err())
	}
}
