package mailer

import (
	"context"
	"fmt"

	"github.com/gestortareas/api/config"
	"github.com/gestortareas/api/pkg/logger"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// Sender delivers transactional email. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPSender sends mail through an SMTP relay using go-mail
type SMTPSender struct {
	cfg config.SMTPConfig
}

// NewSMTPSender creates a sender bound to the configured SMTP relay
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send composes and delivers a single HTML message
func (s *SMTPSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := mail.NewMsg()

	if err := msg.FromFormat(s.cfg.FromName, s.cfg.From); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.User),
		mail.WithPassword(s.cfg.Password),
	}
	if s.cfg.SSL {
		opts = append(opts, mail.WithSSLPort(true))
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	logger.GetLogger().Info("Email sent",
		zap.String("to", to),
		zap.String("subject", subject),
	)

	return nil
}

// NoopSender discards outgoing mail. Used in development when no SMTP
// relay is configured, and in tests.
type NoopSender struct{}

func (NoopSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	logger.GetLogger().Info("Email delivery skipped (no SMTP configured)",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}
