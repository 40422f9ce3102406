package services

import (
	"fmt"
	"net/smtp"

	"chat-api/confs"

	"go.uber.org/zap"
)

// Mailer is the side channel for verification and password-reset links.
type Mailer interface {
	Send(to, subject, body string) error
}

type SMTPMailer struct {
	cfg    *confs.Config
	logger *zap.Logger
}

func NewSMTPMailer(cfg *confs.Config, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: logger}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	if m.cfg.SMTPHost == "" {
		// Mail is optional in development; log the link instead.
		m.logger.Info("smtp not configured, skipping email",
			zap.String("to", to),
			zap.String("subject", subject))
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.cfg.EmailSender, to, subject, body)

	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)
	auth := smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPass, m.cfg.SMTPHost)
	return smtp.SendMail(addr, auth, m.cfg.EmailSender, []string{to}, []byte(msg))
}
