package mailservice

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-mail/mail/v2"

	"github.com/sushihentaime/blogbook/internal/common"
)

// MailService turns user.created events into welcome emails.
type MailService struct {
	mb     common.MessageConsumer
	m      Mailer
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
	// done is closed when the consumer goroutine exits.
	done chan struct{}
	// baseDelay is the first backoff window; each retry doubles it.
	baseDelay time.Duration
}

// Envelope is one rendered email.
type Envelope struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer renders the named template for data and delivers it to one recipient.
type Mailer interface {
	Send(to, templateName string, data any) error
}

type Renderer interface {
	Render(templateName string, data any) (*Envelope, error)
}

type Dialer interface {
	DialAndSend(m ...*mail.Message) error
}

// WelcomeData is the user.created payload and the welcome template's data.
type WelcomeData struct {
	Email string
	Name  string
}
