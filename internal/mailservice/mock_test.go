package mailservice

import (
	"sync"

	"github.com/go-mail/mail/v2"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/mock"

	"github.com/sushihentaime/blogbook/internal/common"
)

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(name string, data any) (*Envelope, error) {
	args := m.Called(name, data)
	env, _ := args.Get(0).(*Envelope)
	return env, args.Error(1)
}

type MockDialer struct {
	mock.Mock
}

func (d *MockDialer) DialAndSend(m ...*mail.Message) error {
	args := d.Called(m)
	return args.Error(0)
}

// MockMailer fails the first `failures` sends and reports every attempt on sent.
type MockMailer struct {
	mu       sync.Mutex
	failures int
	calls    int
	sent     chan string
}

func newMockMailer(failures int) *MockMailer {
	return &MockMailer{failures: failures, sent: make(chan string, 16)}
}

func (m *MockMailer) Send(recipient, templateName string, data any) error {
	m.mu.Lock()
	m.calls++
	fail := m.calls <= m.failures
	m.mu.Unlock()

	if fail {
		return errTestSend
	}

	m.sent <- recipient
	return nil
}

func (m *MockMailer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type MockMessageConsumer struct {
	mock.Mock
}

func (m *MockMessageConsumer) Consume(b common.Binding) (<-chan amqp.Delivery, error) {
	args := m.Called(b)
	if ch, ok := args.Get(0).(chan amqp.Delivery); ok {
		return ch, args.Error(1)
	}
	return nil, args.Error(1)
}
