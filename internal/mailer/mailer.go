// Package mailer delivers transactional email over SMTP. When no SMTP
// credentials are configured the mailer runs in log-only mode so that
// development environments work without a mail server.
package mailer

import (
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/alpayabdullayev/Basic-Reservation-System/internal/config"
)

// Mailer sends plain-text mail from the configured sender address.
type Mailer struct {
	cfg    config.Config
	logger *zap.Logger
}

func New(cfg config.Config, logger *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, logger: logger}
}

// Send delivers one message. In log-only mode the message is recorded
// and the call succeeds.
func (m *Mailer) Send(to, subject, body string) error {
	if m.cfg.SMTPUser == "" {
		m.logger.Info("mail (log-only mode)",
			zap.String("to", to),
			zap.String("subject", subject),
		)
		return nil
	}

	c, err := mail.NewClient(m.cfg.SMTPHost,
		mail.WithPort(m.cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.SMTPUser),
		mail.WithPassword(m.cfg.SMTPPass),
	)
	if err != nil {
		m.logger.Error("smtp client init failed", zap.Error(err))
		return err
	}

	msg := mail.NewMsg()
	if err := msg.From(m.cfg.MailFrom); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := c.DialAndSend(msg); err != nil {
		m.logger.Error("mail delivery failed", zap.String("to", to), zap.Error(err))
		return err
	}
	return nil
}
