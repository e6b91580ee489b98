package broker

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/chimera-labs/chimera/pkg/log"
	"github.com/chimera-labs/chimera/pkg/metrics"
	"github.com/chimera-labs/chimera/pkg/observability"
	"github.com/chimera-labs/chimera/pkg/types"
)

const (
	subscriberChannelName = "subscriber"
	dlqMessageTTLMillis   = 24 * 60 * 60 * 1000
)

// Handler processes one delivery. A non-nil error nacks the delivery
// (requeue=false); a nil error acks it (spec.md §4.4).
type Handler func(ctx context.Context, routingKey types.RoutingKey, body []byte, headers amqp.Table) error

// SubscriptionBinding is the queue/exchange/routing-key topology for one
// agent (spec.md §3 SubscriptionBinding).
type SubscriptionBinding struct {
	QueueName   string
	Exchange    string
	RoutingKeys []types.RoutingKey
	Prefetch    int
	MessageTTL  int64 // milliseconds; 0 uses the spec default of 24h
}

// Subscriber declares topology, sets QoS, and drives a delivery loop that
// dispatches each message to handler (spec.md §4.4).
type Subscriber struct {
	channels *ChannelManager
	binding  SubscriptionBinding
	handler  Handler
}

func NewSubscriber(channels *ChannelManager, binding SubscriptionBinding, handler Handler) *Subscriber {
	if binding.Prefetch <= 0 {
		binding.Prefetch = 10
	}
	if binding.MessageTTL <= 0 {
		binding.MessageTTL = dlqMessageTTLMillis
	}
	return &Subscriber{channels: channels, binding: binding, handler: handler}
}

// Declare sets up the main exchange, main queue (with dead-letter
// configuration), the DLX, and the DLQ, then binds the main queue to every
// configured routing key and sets channel QoS (spec.md §4.4).
func (s *Subscriber) Declare() error {
	return s.channels.WithChannel(subscriberChannelName, func(ch *amqp.Channel) error {
		if err := DeclareExchange(ch, s.binding.Exchange); err != nil {
			return err
		}

		// topic, not fanout: every agent on this exchange shares one DLX
		// name (<exchange>.dlx), so a fanout binding would broadcast a message
		// dead-lettered from any one agent's queue to every agent's DLQ.
		// Binding each DLQ to only its own routing keys below keeps
		// dead-letter delivery scoped to its originating agent, matching the
		// main queue's binding loop (spec.md §6).
		dlxName := s.binding.Exchange + ".dlx"
		if err := ch.ExchangeDeclare(dlxName, "topic", true, false, false, false, nil); err != nil {
			return err
		}

		dlqName := s.binding.QueueName + ".dlq"
		if _, err := ch.QueueDeclare(dlqName, true, false, false, false, nil); err != nil {
			return err
		}
		for _, rk := range s.binding.RoutingKeys {
			if err := ch.QueueBind(dlqName, string(rk), dlxName, false, nil); err != nil {
				return err
			}
		}

		mainArgs := amqp.Table{
			"x-dead-letter-exchange": dlxName,
			"x-message-ttl":          s.binding.MessageTTL,
		}
		if _, err := DeclareQueue(ch, s.binding.QueueName, mainArgs); err != nil {
			return err
		}

		for _, rk := range s.binding.RoutingKeys {
			if err := Bind(ch, s.binding.QueueName, s.binding.Exchange, string(rk)); err != nil {
				return err
			}
		}

		return ch.Qos(s.binding.Prefetch, 0, false)
	})
}

// Run declares topology and consumes deliveries until ctx is cancelled or
// the delivery channel closes; Subscriber has no separate stop method, so
// cancelling ctx is the way to end consumption. Handler success acks; handler failure, or an unknown
// routing key, nacks with requeue=false so the broker's dead-letter
// configuration routes the message to the DLQ (spec.md §4.4).
func (s *Subscriber) Run(ctx context.Context) error {
	if err := s.Declare(); err != nil {
		return err
	}

	ch, err := s.channels.Get(subscriberChannelName)
	if err != nil {
		return err
	}

	deliveries, err := ch.Consume(s.binding.QueueName, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return nil
			}
			s.dispatch(ctx, delivery)
		}
	}
}

func (s *Subscriber) dispatch(ctx context.Context, delivery amqp.Delivery) {
	routingKey := types.RoutingKey(delivery.RoutingKey)

	correlationID, _ := delivery.Headers["correlation_id"].(string)
	ctx = observability.WithCorrelationID(ctx, correlationID)
	ctx = observability.ExtractTraceContext(ctx, headerStrings(delivery.Headers))

	tracer := observability.Tracer("chimera.broker.subscriber")
	ctx, span := observability.StartHandlerSpan(ctx, tracer, s.binding.QueueName, string(routingKey))
	defer span.End()

	logger := observability.Logger(ctx, log.WithComponent(s.binding.QueueName))

	timer := metrics.NewTimer()
	err := s.handler(ctx, routingKey, delivery.Body, delivery.Headers)
	timer.ObserveDurationVec(metrics.HandlerLatency, string(routingKey))

	if err != nil {
		logger.Error().Err(err).Str("routing_key", string(routingKey)).Msg("handler failed, sending to DLQ")
		metrics.MessagesConsumedTotal.WithLabelValues(string(routingKey), "failure").Inc()
		_ = delivery.Nack(false, false)
		return
	}
	metrics.MessagesConsumedTotal.WithLabelValues(string(routingKey), "success").Inc()
	_ = delivery.Ack(false)
}

func headerStrings(table amqp.Table) map[string]string {
	out := make(map[string]string, len(table))
	for k, v := range table {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

// RoutingKeyUnbound is returned by a dispatch function when asked to handle
// a routing key with no registered payload schema — the subscriber treats
// this the same as any other handler failure (nack, no requeue).
func RoutingKeyUnbound(rk types.RoutingKey) error {
	return fmt.Errorf("no payload schema registered for routing key %q", rk)
}
