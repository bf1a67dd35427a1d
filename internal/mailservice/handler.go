package mailservice

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/exp/rand"

	"github.com/sushihentaime/blogbook/internal/common"
)

const maxRetries = 5

func NewMailService(mb common.MessageConsumer, host, username, password, sender string, port int, logger *slog.Logger) *MailService {
	ctx, cancel := context.WithCancel(context.Background())
	return &MailService{
		mb:        mb,
		m:         NewSMTPMailer(host, port, username, password, sender, NewTemplateRenderer()),
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
		baseDelay: 500 * time.Millisecond,
	}
}

// SendWelcomeEmail consumes user.created events and mails each new user.
// It returns once the consumer is running.
func (s *MailService) SendWelcomeEmail() error {
	msgs, err := s.mb.Consume(common.UserCreated)
	if err != nil {
		return err
	}

	s.done = make(chan struct{})
	go func() {
		defer close(s.done)

		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				s.handleUserCreated(msg)

			case <-s.ctx.Done():
				s.logger.Info("stopping welcome email consumer")
				return
			}
		}
	}()

	return nil
}

func (s *MailService) handleUserCreated(msg amqp.Delivery) {
	var data WelcomeData
	if err := json.Unmarshal(msg.Body, &data); err != nil {
		s.logger.Error("could not unmarshal message", slog.String("error", err.Error()))
		_ = msg.Ack(false)
		return
	}

	// exponential backoff with full jitter
	for attempt := 0; attempt < maxRetries; attempt++ {
		err := s.m.Send(data.Email, welcomeTemplate, data)
		if err == nil {
			s.logger.Info("welcome email sent", slog.String("email", data.Email))
			_ = msg.Ack(false)
			return
		}

		delay := time.Duration(rand.Int63n(int64(s.baseDelay)<<uint(attempt) + 1))
		s.logger.Info("delaying welcome email", slog.String("email", data.Email), slog.Int("attempt", attempt), slog.Duration("delay", delay), slog.String("error", err.Error()))

		select {
		case <-time.After(delay):
		case <-s.ctx.Done():
			_ = msg.Nack(false, true)
			return
		}
	}

	s.logger.Error("could not send welcome email", slog.String("email", data.Email))
	_ = msg.Ack(false)
}

// Close stops the consumer and waits for it to exit.
func (s *MailService) Close() {
	s.cancel()
	if s.done != nil {
		<-s.done
	}
}
