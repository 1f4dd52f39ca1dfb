// Package mail sends transactional email: today only password reset links.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"mime"
	"net/smtp"
	"strings"
	"time"
)

// Message is a single outbound email.
type Message struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig configures SMTPMailer.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	FromName string
}

// SMTPMailer sends mail through an authenticated SMTP relay.
type SMTPMailer struct {
	cfg  SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPMailer returns a mailer for cfg. The sender address is the
// SMTP username.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, send: smtp.SendMail}
}

// Send delivers msg. smtp.SendMail has no context support, so ctx is only
// checked before dialing.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := m.send(addr, auth, m.cfg.Username, []string{msg.To}, m.build(msg)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", msg.To, err)
	}
	return nil
}

// build renders a multipart/alternative message with text and HTML parts.
func (m *SMTPMailer) build(msg Message) []byte {
	const boundary = "placify-alt-boundary"
	from := m.cfg.Username
	if m.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", m.cfg.FromName), m.cfg.Username)
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(crlf(msg.TextBody))
	b.WriteString("\r\n")
	if msg.HTMLBody != "" {
		fmt.Fprintf(&b, "--%s\r\n", boundary)
		b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
		b.WriteString(crlf(msg.HTMLBody))
		b.WriteString("\r\n")
	}
	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return b.Bytes()
}

func crlf(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", "\r\n")
}

// LogMailer logs messages instead of sending them. It is used when SMTP is
// not configured.
type LogMailer struct {
	Logger *slog.Logger
}

// Send logs msg at info level.
func (m *LogMailer) Send(_ context.Context, msg Message) error {
	logger := m.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("email not sent (SMTP not configured)",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("body", msg.TextBody))
	return nil
}

var resetHTML = template.Must(template.New("reset").Parse(`<p>Hello {{.Name}},</p>
<p>We received a request to reset your Placify password.</p>
<p><a href="{{.Link}}">Reset your password</a></p>
<p>This link expires in {{.Minutes}} minutes. If you did not ask for a reset, you can ignore this email.</p>`))

// PasswordReset builds the reset email for one user.
func PasswordReset(to, name, link string, ttl time.Duration) (Message, error) {
	if name == "" {
		name = "User"
	}
	minutes := int(ttl.Minutes())
	data := struct {
		Name    string
		Link    string
		Minutes int
	}{name, link, minutes}

	var html bytes.Buffer
	if err := resetHTML.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("failed to render reset email: %w", err)
	}

	text := fmt.Sprintf("Hello %s,\n\nWe received a request to reset your Placify password.\n\n"+
		"Open this link to choose a new one:\n%s\n\n"+
		"This link expires in %d minutes. If you did not ask for a reset, you can ignore this email.\n",
		name, link, minutes)

	return Message{
		To:       to,
		Subject:  "Reset your Placify password",
		TextBody: text,
		HTMLBody: html.String(),
	}, nil
}
