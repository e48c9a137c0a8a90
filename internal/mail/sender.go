package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/sachi-ghani/storefront-service/internal/config"
)

// Sender delivers transactional mail (password reset links).
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// NewSender returns an SMTP-backed sender when credentials are configured,
// otherwise a log-only sender so development works without a mail account.
func NewSender(cfg config.MailConfig, logger *zap.Logger) Sender {
	if strings.TrimSpace(cfg.Host) == "" {
		logger.Warn("SMTP_HOST not configured; outgoing mail will only be logged")
		return &logSender{logger: logger}
	}
	return &smtpSender{cfg: cfg, logger: logger}
}

type smtpSender struct {
	cfg    config.MailConfig
	logger *zap.Logger
}

func (s *smtpSender) Send(_ context.Context, to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		s.cfg.From, to, subject, body)

	addr := s.cfg.Host + ":" + s.cfg.Port
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	s.logger.Info("mail sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

type logSender struct {
	logger *zap.Logger
}

func (s *logSender) Send(_ context.Context, to, subject, body string) error {
	s.logger.Info("mail (log-only)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}
