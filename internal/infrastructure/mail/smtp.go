package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/contacthub/contacts-api/internal/api/metrics"
	"github.com/contacthub/contacts-api/internal/core/ports"
	"github.com/contacthub/contacts-api/internal/infrastructure/config"
)

var _ ports.Mailer = (*SMTPMailer)(nil)

// SMTPMailer delivers confirmation and password-reset emails over SMTP.
// Links embedded in the messages are built from the service's public base URL.
type SMTPMailer struct {
	addr     string
	from     string
	username string
	password string
	baseURL  string
	log      zerolog.Logger
}

func NewSMTPMailer(cfg config.SMTPConfig, baseURL string, log zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{
		addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		from:     cfg.From,
		username: cfg.Username,
		password: cfg.Password,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		log:      log,
	}
}

func (m *SMTPMailer) SendConfirmation(ctx context.Context, to, name, token string) error {
	link := m.baseURL + "/api/auth/confirmed_email/" + token
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\nPlease confirm your email address by opening the link below:\r\n%s\r\n",
		name, link)
	return m.send(ctx, "confirmation", to, "Confirm your email", body)
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, name, token string) error {
	link := m.baseURL + "/reset-password/" + token
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\nA password reset was requested for your account. Use the link below to choose a new password:\r\n%s\r\n\r\nIf you did not request this, ignore this message.\r\n",
		name, link)
	return m.send(ctx, "password_reset", to, "Reset your password", body)
}

func (m *SMTPMailer) send(ctx context.Context, kind, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := buildMessage(m.from, to, subject, body)

	var auth smtp.Auth
	if m.username != "" {
		host := m.addr
		if i := strings.LastIndex(host, ":"); i >= 0 {
			host = host[:i]
		}
		auth = smtp.PlainAuth("", m.username, m.password, host)
	}

	if err := smtp.SendMail(m.addr, auth, m.from, []string{to}, msg); err != nil {
		metrics.MailSendsTotal.WithLabelValues(kind, "error").Inc()
		return fmt.Errorf("smtp send: %w", err)
	}
	metrics.MailSendsTotal.WithLabelValues(kind, "sent").Inc()
	m.log.Debug().Str("to", to).Str("kind", kind).Msg("email sent")
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
