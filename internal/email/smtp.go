package email

import (
	"context"

	"gopkg.in/gomail.v2"

	"github.com/spec-kit/tryon-service/internal/config"
)

// SMTPSender delivers mail through a plain SMTP relay.
type SMTPSender struct {
	cfg config.EmailConfig
}

// NewSMTPSender builds the SMTP-backed sender.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send dials the relay and delivers one message.
func (s *SMTPSender) Send(_ context.Context, msg Message) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.FromAddress, s.cfg.FromName)
	m.SetAddressHeader("To", msg.ToEmail, msg.ToName)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLContent)
	if msg.TextContent != "" {
		m.AddAlternative("text/plain", msg.TextContent)
	}

	d := gomail.NewDialer(s.cfg.SMTPHost, s.cfg.SMTPPort, s.cfg.SMTPUser, s.cfg.SMTPPass)
	return d.DialAndSend(m)
}
