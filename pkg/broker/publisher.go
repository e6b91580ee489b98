package broker

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel/trace"

	"github.com/chimera-labs/chimera/pkg/chimeraerrors"
	"github.com/chimera-labs/chimera/pkg/envelope"
	"github.com/chimera-labs/chimera/pkg/metrics"
	"github.com/chimera-labs/chimera/pkg/observability"
	"github.com/chimera-labs/chimera/pkg/types"
)

const publisherChannelName = "publisher"

// Publisher publishes envelopes onto the agent's configured exchange
// (spec.md §4.3).
type Publisher struct {
	channels *ChannelManager
	exchange string
	sender   string
	tracer   trace.Tracer
}

func NewPublisher(channels *ChannelManager, exchange, sender string) *Publisher {
	return &Publisher{
		channels: channels,
		exchange: exchange,
		sender:   sender,
		tracer:   observability.Tracer("chimera.broker.publisher"),
	}
}

// Publish serializes payload, builds a message envelope, and routes it on
// routingKey. Publish returns after one publish attempt; the channel is not
// put into publisher-confirm mode, so a nil error means the message was
// written to the channel, not that the broker acknowledged it. Higher-level
// retry is the caller's responsibility (spec.md §4.3).
func (p *Publisher) Publish(ctx context.Context, payload any, routingKey types.RoutingKey, correlationID, replyTo string) error {
	env := envelope.BuildMetadata(p.sender, correlationID, replyTo)

	timer := metrics.NewTimer()
	defer timer.ObserveDurationVec(metrics.PublishLatency, string(routingKey))

	ctx, span := p.tracer.Start(ctx, "publish "+string(routingKey))
	defer span.End()

	observability.InjectTraceContext(ctx, env.TraceHeaders)

	body, err := envelope.Serialize(payload)
	if err != nil {
		return err
	}

	headers := amqp.Table{
		"message_id":     env.MessageID,
		"correlation_id": env.CorrelationID,
		"sender_agent":   env.SenderAgent,
	}
	if env.ReplyTo != "" {
		headers["reply_to"] = env.ReplyTo
	}
	for k, v := range env.TraceHeaders {
		headers[k] = v
	}

	ch, err := p.channels.Get(publisherChannelName)
	if err != nil {
		return chimeraerrors.Wrap(chimeraerrors.KindSystem, "broker.publish_channel_unavailable",
			"failed to acquire publisher channel", err).WithRetryable(true)
	}

	publishCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = ch.PublishWithContext(publishCtx, p.exchange, string(routingKey), false, false, amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		MessageId:     env.MessageID,
		CorrelationId: env.CorrelationID,
		Timestamp:     time.UnixMilli(env.TimestampMS),
		AppId:         p.sender,
		Headers:       headers,
		Body:          body,
	})
	if err != nil {
		return chimeraerrors.Wrap(chimeraerrors.KindSystem, "broker.publish_failed",
			"failed to publish message", err).WithRetryable(true)
	}
	metrics.MessagesPublishedTotal.WithLabelValues(string(routingKey)).Inc()
	return nil
}
