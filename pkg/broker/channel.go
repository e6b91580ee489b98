package broker

import (
	"context"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ChannelManager owns a map of named channels over the current connection
// (spec.md §4.2). get(name) lazily opens a channel and discards it in favor
// of a fresh one if the cached channel has been closed.
type ChannelManager struct {
	conn *ConnectionManager

	mu       sync.Mutex
	channels map[string]*amqp.Channel
}

func NewChannelManager(conn *ConnectionManager) *ChannelManager {
	return &ChannelManager{conn: conn, channels: make(map[string]*amqp.Channel)}
}

// Get returns an open channel for name, creating or replacing it as needed.
func (m *ChannelManager) Get(name string) (*amqp.Channel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ch, ok := m.channels[name]; ok && !ch.IsClosed() {
		return ch, nil
	}

	conn, err := m.conn.Get(context.Background())
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	m.channels[name] = ch
	return ch, nil
}

// WithChannel runs fn against the named channel, closing the channel on any
// non-normal exit so a failure never leaks an unusable cached channel
// (spec.md §4.2 "with_channel scope").
func (m *ChannelManager) WithChannel(name string, fn func(*amqp.Channel) error) error {
	ch, err := m.Get(name)
	if err != nil {
		return err
	}
	if err := fn(ch); err != nil {
		m.mu.Lock()
		delete(m.channels, name)
		m.mu.Unlock()
		_ = ch.Close()
		return err
	}
	return nil
}

// DeclareExchange idempotently declares a durable topic exchange.
func DeclareExchange(ch *amqp.Channel, name string) error {
	return ch.ExchangeDeclare(name, "topic", true, false, false, false, nil)
}

// DeclareQueue idempotently declares a durable queue with the given
// arguments (e.g. dead-letter configuration).
func DeclareQueue(ch *amqp.Channel, name string, args amqp.Table) (amqp.Queue, error) {
	return ch.QueueDeclare(name, true, false, false, false, args)
}

// Bind idempotently binds queue to exchange for routingKey.
func Bind(ch *amqp.Channel, queue, exchange, routingKey string) error {
	return ch.QueueBind(queue, routingKey, exchange, false, nil)
}
