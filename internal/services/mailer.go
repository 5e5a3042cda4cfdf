package services

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
)

// Mailer delivers transactional mail. Kept as an interface so handlers can
// be tested without an SMTP server.
type Mailer interface {
	SendOTP(to, code string) error
}

type smtpMailer struct {
	addr string
	from string
	auth smtp.Auth
}

func NewSMTPMailer(host, port, username, password string) Mailer {
	return &smtpMailer{
		addr: fmt.Sprintf("%s:%s", host, port),
		from: username,
		auth: smtp.PlainAuth("", username, password, host),
	}
}

func (m *smtpMailer) SendOTP(to, code string) error {
	em := email.NewEmail()
	em.From = m.from
	em.To = []string{to}
	em.Subject = "OTP Verification"
	em.HTML = []byte(fmt.Sprintf(
		"<p>Your OTP from Learnweave is <strong>%s</strong>. It will expire in 2 minutes.</p>", code))

	if err := em.Send(m.addr, m.auth); err != nil {
		return fmt.Errorf("failed to send OTP mail: %w", err)
	}
	return nil
}
