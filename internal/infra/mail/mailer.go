// Package mail delivers report emails over SMTP.
package mail

import (
	"gopkg.in/gomail.v2"
)

// Mailer sends HTML emails with file attachments through an SMTP relay
// using STARTTLS. The contract is send-or-error: no retries, no queueing;
// delivery is at-least-once across job re-runs.
type Mailer struct {
	host      string
	port      int
	user      string
	pass      string
	fromEmail string
	fromName  string
}

// NewMailer creates a Mailer from SMTP settings.
func NewMailer(host string, port int, user, pass, fromEmail, fromName string) *Mailer {
	return &Mailer{
		host:      host,
		port:      port,
		user:      user,
		pass:      pass,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

// Send delivers one message. Attachment paths must exist at send time.
func (m *Mailer) Send(subject, htmlBody string, to []string, attachments []string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.fromEmail, m.fromName)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	for _, path := range attachments {
		msg.Attach(path)
	}

	dialer := gomail.NewDialer(m.host, m.port, m.user, m.pass)
	return dialer.DialAndSend(msg)
}
