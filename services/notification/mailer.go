package notification

import (
	"fmt"

	"glowbook/models"

	"gopkg.in/gomail.v2"
)

// Mailer delivers a single email. Implemented over SMTP in production and
// faked in tests.
type Mailer interface {
	Send(payload models.EmailPayload) error
}

// SMTPMailer sends through a plain SMTP relay.
type SMTPMailer struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

func (m *SMTPMailer) Send(payload models.EmailPayload) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.From)
	msg.SetHeader("To", payload.To)
	msg.SetHeader("Subject", payload.Subject)
	msg.SetBody("text/plain", payload.Body)

	dialer := gomail.NewDialer(m.Host, m.Port, m.User, m.Pass)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", payload.To, err)
	}
	return nil
}
