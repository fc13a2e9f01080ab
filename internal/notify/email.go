// Package notify delivers availability notifications over SMTP.
package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// AvailableSubject is the subject line used when a product becomes available.
const AvailableSubject = "Product available for in-store pickup!"

// Notifier delivers a preformatted notification. Implementations report
// failure to the caller; the monitor logs and drops it, no retry.
type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}

// SMTPConfig holds relay settings for the email notifier.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	Recipient string
}

// EmailNotifier sends plaintext mail through a STARTTLS-upgraded SMTP
// connection, authenticated with the configured account.
type EmailNotifier struct {
	cfg    SMTPConfig
	logger *zap.Logger
}

// NewEmailNotifier constructs an EmailNotifier.
func NewEmailNotifier(cfg SMTPConfig, logger *zap.Logger) *EmailNotifier {
	return &EmailNotifier{cfg: cfg, logger: logger}
}

// Notify composes and sends one email. A fresh SMTP connection is dialed per
// notification; at one email per availability transition there is nothing to
// pool.
func (n *EmailNotifier) Notify(ctx context.Context, subject, body string) error {
	client, err := mail.NewClient(n.cfg.Host,
		mail.WithPort(n.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(n.cfg.Username),
		mail.WithPassword(n.cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.From(n.cfg.Username); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(n.cfg.Recipient); err != nil {
		return fmt.Errorf("set to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	n.logger.Info("notification email sent",
		zap.String("to", n.cfg.Recipient),
		zap.String("subject", subject),
	)
	return nil
}
