package mailservice

import (
	"fmt"
	"time"

	"github.com/go-mail/mail/v2"
)

// SMTPMailer delivers rendered templates through an SMTP relay.
type SMTPMailer struct {
	dialer   Dialer
	renderer Renderer
	sender   string
}

func NewSMTPMailer(host string, port int, username, password, sender string, r Renderer) *SMTPMailer {
	dialer := mail.NewDialer(host, port, username, password)
	dialer.Timeout = 5 * time.Second

	return &SMTPMailer{
		dialer:   dialer,
		renderer: r,
		sender:   sender,
	}
}

func (m *SMTPMailer) Send(to, templateName string, data any) error {
	env, err := m.renderer.Render(templateName, data)
	if err != nil {
		return err
	}
	env.To = to

	return m.deliver(env)
}

func (m *SMTPMailer) deliver(env *Envelope) error {
	msg := mail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", env.To)
	msg.SetHeader("Subject", env.Subject)
	msg.SetBody("text/plain", env.Text)
	if env.HTML != "" {
		msg.AddAlternative("text/html", env.HTML)
	}

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("could not deliver mail to %s: %w", env.To, err)
	}
	return nil
}
