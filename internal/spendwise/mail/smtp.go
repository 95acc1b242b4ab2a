package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/spendwise-app/spendwise/pkg/slogx"
)

// SMTPConfig points the sender at a mail relay. User and Password are
// optional; when empty the handshake skips AUTH, which is what local dev
// relays like Mailpit expect.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// SMTPSender delivers mail over a plain SMTP relay.
type SMTPSender struct {
	cfg SMTPConfig
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) SendWelcome(ctx context.Context, to, name string) error {
	subject, body := welcomeBody(name)
	return s.send(ctx, to, subject, body)
}

func (s *SMTPSender) SendVerifyOTP(ctx context.Context, to, code string) error {
	subject, body := verifyBody(code)
	return s.send(ctx, to, subject, body)
}

func (s *SMTPSender) SendResetOTP(ctx context.Context, to, code string) error {
	subject, body := resetBody(code)
	return s.send(ctx, to, subject, body)
}

func (s *SMTPSender) send(ctx context.Context, to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	// RFC 822 message with CRLF line endings and a blank line separating
	// headers from body.
	message := strings.Join([]string{
		"From: " + s.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="UTF-8"`,
		"",
		body,
	}, "\r\n")

	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("mail: send to %s: %w", to, err)
	}
	slogx.FromContext(ctx).Debug("mail delivered", "to", to, "subject", subject)
	return nil
}
