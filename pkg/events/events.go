package events

import (
	"sync"
	"time"
)

// EventType names a kind of local lifecycle event an Agent can emit.
type EventType string

const (
	EventMessageDispatched EventType = "message.dispatched"
	EventMessageFailed     EventType = "message.failed"
	EventCorrelationReaped EventType = "correlation.reaped"
	EventAlertFired        EventType = "alert.fired"
)

// Event is a local, in-process notification — never put on the wire. It
// exists for observers inside the same process (tests, a future CLI tail
// command) that want dispatch/correlation/alert activity without scraping
// /metrics or attaching a second AMQP consumer.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Message   string
	Metadata  map[string]string
}

// Subscriber is a channel that receives events.
type Subscriber chan *Event

// Broker fans Events out to any number of local Subscribers. One Broker is
// owned per Agent (pkg/agent.Agent.Events).
type Broker struct {
	subscribers map[Subscriber]bool
	mu          sync.RWMutex
	eventCh     chan *Event
	stopCh      chan struct{}
}

// NewBroker creates a new event broker.
func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[Subscriber]bool),
		eventCh:     make(chan *Event, 100),
		stopCh:      make(chan struct{}),
	}
}

// Start begins the broker's event distribution loop.
func (b *Broker) Start() {
	go b.run()
}

// Stop stops the broker. Safe to call once; a second call panics on the
// already-closed channel, matching close()'s usual contract.
func (b *Broker) Stop() {
	close(b.stopCh)
}

// Subscribe creates a new subscription and returns a channel.
func (b *Broker) Subscribe() Subscriber {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := make(Subscriber, 50)
	b.subscribers[sub] = true
	return sub
}

// Unsubscribe removes a subscription.
func (b *Broker) Unsubscribe(sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.subscribers, sub)
	close(sub)
}

// Publish publishes an event to all subscribers. Never blocks the caller
// past the broker's own event queue: a full queue drops the event rather
// than stalling a dispatch hot path.
func (b *Broker) Publish(event *Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	select {
	case b.eventCh <- event:
	default:
	}
}

func (b *Broker) run() {
	for {
		select {
		case event := <-b.eventCh:
			b.broadcast(event)
		case <-b.stopCh:
			return
		}
	}
}

func (b *Broker) broadcast(event *Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subscribers {
		select {
		case sub <- event:
		default:
		}
	}
}

// SubscriberCount returns the number of active subscribers.
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
