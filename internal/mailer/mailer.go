package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"
)

// Mailer sends best-effort registration acknowledgments. A nil *Mailer
// (SMTP not configured) is a valid no-op.
type Mailer struct {
	host     string
	port     string
	from     string
	password string
	log      *zerolog.Logger
}

func New(host, port, from, password string, log *zerolog.Logger) *Mailer {
	if host == "" || from == "" {
		return nil
	}
	return &Mailer{host: host, port: port, from: from, password: password, log: log}
}

func (m *Mailer) SendRegistrationReceived(workshopTitle, recipientEmail string) error {
	if m == nil {
		return nil
	}

	subject := "Your workshop registration was received"
	body := fmt.Sprintf(
		"Hello!\n\nWe received your registration for the workshop \"%s\".\nIt is pending payment verification; we will confirm it once your payment proof is reviewed.",
		workshopTitle,
	)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.from, recipientEmail, subject, body,
	)

	addr := m.host + ":" + m.port
	auth := smtp.PlainAuth("", m.from, m.password, m.host)

	if err := smtp.SendMail(addr, auth, m.from, []string{recipientEmail}, []byte(msg)); err != nil {
		m.log.Warn().Msgf("failed to send email to %s: %v", recipientEmail, err)
		return fmt.Errorf("send email: %w", err)
	}

	m.log.Info().Msgf("registration email sent to %s", recipientEmail)
	return nil
}
