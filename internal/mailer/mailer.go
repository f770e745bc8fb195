// Package mailer provides the outbound email collaborator used by the
// signup flow.
package mailer

import (
	"fmt"
	"log/slog"
	"net/smtp"
)

type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends plain-text mail through a single SMTP relay.
type SMTPMailer struct {
	host     string
	port     string
	from     string
	password string
}

func NewSMTPMailer(host, port, from, password string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, from: from, password: password}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	auth := smtp.PlainAuth("", m.from, m.password, m.host)

	message := []byte("Subject: " + subject + "\r\n" +
		"From: " + m.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		body + "\r\n")

	if err := smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{to}, message); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// LogMailer writes the mail to the log instead of sending it. Used when
// SMTP is not configured, so local signups still surface their codes.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(to, subject, body string) error {
	m.logger.Info("outbound mail (smtp disabled)",
		"to", to,
		"subject", subject,
		"body", body,
	)
	return nil
}
