// Package mailx delivers one-time passcodes by email. Delivery is an
// external collaborator: the OTP engine hands it the plaintext code and does
// not care whether the send ultimately succeeds.
package mailx

import (
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"
)

// Email is a single outbound message.
type Email struct {
	To       string
	Subject  string
	Body     string
	HTMLBody string
}

// Sender is the delivery collaborator.
type Sender interface {
	Send(email Email) error
}

// OtpEmail composes the verification-code message for a recipient.
func OtpEmail(to, code string) Email {
	return Email{
		To:       to,
		Subject:  "Your CloudNotes verification code",
		Body:     fmt.Sprintf("Your verification code is: %s", code),
		HTMLBody: fmt.Sprintf("<p>Your verification code is: <b>%s</b></p>", code),
	}
}

// SMTPConfig holds the mail relay credentials.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled reports whether the relay is fully configured.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.Port != 0 && c.Username != "" && c.Password != "" && c.From != ""
}

// Mailer sends mail through an SMTP relay.
type Mailer struct {
	from   string
	dialer *gomail.Dialer
}

// NewMailer creates an SMTP-backed Sender.
func NewMailer(cfg SMTPConfig) *Mailer {
	return &Mailer{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (m *Mailer) Send(email Email) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email.To)
	msg.SetHeader("Subject", email.Subject)

	if email.HTMLBody != "" {
		msg.SetBody("text/html", email.HTMLBody)
		if email.Body != "" {
			msg.AddAlternative("text/plain", email.Body)
		}
	} else {
		msg.SetBody("text/plain", email.Body)
	}

	return m.dialer.DialAndSend(msg)
}

// LogSender is the development fallback used when no relay is configured: it
// logs the message body (which carries the passcode) instead of sending it.
// Never wire this up in production.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) Send(email Email) error {
	s.Logger.Info("mail relay not configured, logging message instead",
		"to", email.To,
		"subject", email.Subject,
		"body", email.Body,
	)
	return nil
}
