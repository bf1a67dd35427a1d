package common

import (
	"context"
	"fmt"
	"net"
	"net/url"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Exchange string

type Queue string

type BindingKey string

// Binding routes messages published to Exchange with Key into Queue.
type Binding struct {
	Exchange Exchange
	Queue    Queue
	Key      BindingKey
}

// UserCreated carries a JSON {Email, Name} for every signup.
var UserCreated = Binding{
	Exchange: "user_exchange",
	Queue:    "user_created_queue",
	Key:      "user.created",
}

type MessageProducer interface {
	Publish(ctx context.Context, msg []byte, b Binding) error
}

type MessageConsumer interface {
	Consume(b Binding) (<-chan amqp.Delivery, error)
}

// NopProducer drops every message. It stands in for the broker when none is configured.
type NopProducer struct{}

func (NopProducer) Publish(context.Context, []byte, Binding) error {
	return nil
}

type MessageBroker struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewMessageBroker(uri string) (*MessageBroker, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("could not connect to AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("could not open channel: %w", err)
	}

	return &MessageBroker{conn: conn, ch: ch}, nil
}

// BrokerURI builds the amqp URI from its parts.
func BrokerURI(user, password, host, port string) string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(user, password),
		Host:   net.JoinHostPort(host, port),
		Path:   "/",
	}
	return u.String()
}

func (mb *MessageBroker) Close() error {
	if err := mb.ch.Close(); err != nil {
		mb.conn.Close()
		return err
	}
	return mb.conn.Close()
}

// Declare creates the durable direct exchanges and queues named by bindings
// and binds them. Redeclaring an existing binding is a no-op.
func (mb *MessageBroker) Declare(bindings ...Binding) error {
	exchanges := make(map[Exchange]bool)

	for _, b := range bindings {
		if !exchanges[b.Exchange] {
			if err := mb.ch.ExchangeDeclare(string(b.Exchange), "direct", true, false, false, false, nil); err != nil {
				return fmt.Errorf("could not declare exchange %s: %w", b.Exchange, err)
			}
			exchanges[b.Exchange] = true
		}

		if _, err := mb.ch.QueueDeclare(string(b.Queue), true, false, false, false, nil); err != nil {
			return fmt.Errorf("could not declare queue %s: %w", b.Queue, err)
		}

		if err := mb.ch.QueueBind(string(b.Queue), string(b.Key), string(b.Exchange), false, nil); err != nil {
			return fmt.Errorf("could not bind %s to %s: %w", b.Queue, b.Exchange, err)
		}
	}

	return nil
}

func (mb *MessageBroker) Publish(ctx context.Context, msg []byte, b Binding) error {
	err := mb.ch.PublishWithContext(ctx, string(b.Exchange), string(b.Key), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         msg,
	})
	if err != nil {
		return fmt.Errorf("could not publish message: %w", err)
	}

	return nil
}

// Consume delivers messages from the binding's queue with manual acks.
func (mb *MessageBroker) Consume(b Binding) (<-chan amqp.Delivery, error) {
	msgs, err := mb.ch.Consume(string(b.Queue), "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("could not consume %s: %w", b.Queue, err)
	}

	return msgs, nil
}
