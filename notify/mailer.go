package notify

import (
	"fmt"

	"github.com/go-mail/mail"
)

// Mailer sends the alert digest over authenticated SMTP. One attempt
// per run; no retry, no backoff. Delivery failure is the caller's to
// log, never to escalate into the evaluation.
type Mailer struct {
	dialer *mail.Dialer
	from   string
	to     string
}

// NewMailer builds an SMTP notifier. Port 587 negotiates STARTTLS.
func NewMailer(host string, port int, username, password, to string) *Mailer {
	return &Mailer{
		dialer: mail.NewDialer(host, port, username, password),
		from:   username,
		to:     to,
	}
}

// Send delivers one plain-text message.
func (m *Mailer) Send(subject, body string) error {
	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
