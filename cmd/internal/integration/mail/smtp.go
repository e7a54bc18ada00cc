// Package mail delivers outbound email over SMTP.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"os"

	"timeforge/cmd/internal/service"
)

type SMTPMailer struct {
	host string
	port string
	user string
	pass string
	from string
}

var _ service.Mailer = (*SMTPMailer)(nil)

// New reads the SMTP settings from SMTP_HOST, SMTP_PORT, SMTP_USER,
// SMTP_PASS and SMTP_FROM.
func New() *SMTPMailer {
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = os.Getenv("SMTP_USER")
	}
	return &SMTPMailer{
		host: os.Getenv("SMTP_HOST"),
		port: port,
		user: os.Getenv("SMTP_USER"),
		pass: os.Getenv("SMTP_PASS"),
		from: from,
	}
}

// Send delivers one HTML message. net/smtp has no context support, so the
// send runs in a goroutine and the caller's deadline bounds the wait.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, html string) error {
	msg := []byte("From: " + m.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n" +
		"\r\n" + html + "\r\n")

	done := make(chan error, 1)
	go func() {
		auth := smtp.PlainAuth("", m.user, m.pass, m.host)
		done <- smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{to}, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp: send to %s: %w", to, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
