package agent

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/google/uuid"

	"github.com/chimera-labs/chimera/pkg/broker"
	"github.com/chimera-labs/chimera/pkg/chimeraerrors"
	"github.com/chimera-labs/chimera/pkg/events"
	"github.com/chimera-labs/chimera/pkg/log"
	"github.com/chimera-labs/chimera/pkg/types"
)

// RouteHandler processes one delivery already resolved to routingKey. The
// handler owns deserializing body into its payload schema via
// envelope.Deserialize — payload-schema knowledge enters the core only here
// (spec.md §4.9).
type RouteHandler func(ctx context.Context, body []byte, headers amqp.Table) error

// RouteMap is the routing-key→handler map every Agent subtype supplies.
// Dispatch is total: a routing key absent from the map is a hard failure
// for that delivery, never a silent drop (spec.md §4.5).
type RouteMap map[types.RoutingKey]RouteHandler

// Config wires an Agent to its broker topology.
type Config struct {
	Name        string
	Exchange    string
	RoutingKeys []types.RoutingKey
	Prefetch    int
	Routes      RouteMap
}

// messagePublisher is the subset of broker.Publisher the core depends on.
// Accepting the interface rather than the concrete type lets dispatch's
// error-envelope publish be exercised in tests without a live broker
// connection.
type messagePublisher interface {
	Publish(ctx context.Context, payload any, routingKey types.RoutingKey, correlationID, replyTo string) error
}

// Agent fuses a broker.Publisher and broker.Subscriber behind Routes and a
// CorrelationRegistry (spec.md §4.5). Composition over inheritance: there
// is no base-agent class, only this struct plus caller-supplied handlers.
type Agent struct {
	name         string
	publisher    messagePublisher
	subscriber   *broker.Subscriber
	correlations *CorrelationRegistry
	routes       RouteMap
	events       *events.Broker
}

// New builds an Agent over channels, declaring no topology until Run is
// called.
func New(channels *broker.ChannelManager, cfg Config) *Agent {
	a := &Agent{
		name:         cfg.Name,
		publisher:    broker.NewPublisher(channels, cfg.Exchange, cfg.Name),
		correlations: NewCorrelationRegistry(),
		routes:       cfg.Routes,
		events:       events.NewBroker(),
	}
	a.subscriber = broker.NewSubscriber(channels, broker.SubscriptionBinding{
		QueueName:   cfg.Name,
		Exchange:    cfg.Exchange,
		RoutingKeys: cfg.RoutingKeys,
		Prefetch:    cfg.Prefetch,
	}, a.dispatch)
	return a
}

// Run declares topology and drives the subscriber's consume loop until ctx
// is cancelled.
func (a *Agent) Run(ctx context.Context) error {
	a.events.Start()
	defer a.events.Stop()
	return a.subscriber.Run(ctx)
}

// Events returns the agent's local lifecycle event broker. Subscribe to it
// to observe dispatch outcomes without a second AMQP consumer.
func (a *Agent) Events() *events.Broker {
	return a.events
}

func (a *Agent) dispatch(ctx context.Context, routingKey types.RoutingKey, body []byte, headers amqp.Table) error {
	handler, ok := a.routes[routingKey]
	if !ok {
		log.WithAgent(a.name).Warn().Str("routing_key", string(routingKey)).Msg("no route for routing key")
		err := broker.RoutingKeyUnbound(routingKey)
		a.handleDispatchError(ctx, routingKey, headers, err)
		return err
	}
	if err := handler(ctx, body, headers); err != nil {
		a.handleDispatchError(ctx, routingKey, headers, err)
		return err
	}
	a.events.Publish(&events.Event{Type: events.EventMessageDispatched, Message: string(routingKey)})
	return nil
}

// handleDispatchError emits the local failure event and, per spec.md §7,
// publishes a standardized error envelope on the chain's error routing key
// carrying the original correlation-id so the requester can correlate.
// Publish failures here are logged, not returned: the delivery is already
// being nacked to the DLQ on its own merits.
func (a *Agent) handleDispatchError(ctx context.Context, routingKey types.RoutingKey, headers amqp.Table, err error) {
	a.events.Publish(&events.Event{Type: events.EventMessageFailed, Message: err.Error()})

	var domainErr *chimeraerrors.Error
	if !stderrors.As(err, &domainErr) {
		domainErr = chimeraerrors.Wrap(chimeraerrors.KindSystem, "agent.handler_failed", "handler failed", err)
	}

	correlationID, _ := headers["correlation_id"].(string)
	envelope := domainErr.ToEnvelope(correlationID)
	if pubErr := a.publisher.Publish(ctx, envelope, errorRoutingKeyFor(routingKey), correlationID, ""); pubErr != nil {
		log.WithAgent(a.name).Error().Err(pubErr).Str("routing_key", string(routingKey)).Msg("failed to publish error message")
	}
}

// errorRoutingKeyFor derives a routing key's chain's error routing key by
// convention: the family prefix (the segment before the first '.') plus
// ".error" — e.g. both "query.request" and "query.response" map to
// "query.error" (spec.md §6, §7).
func errorRoutingKeyFor(routingKey types.RoutingKey) types.RoutingKey {
	family, _, found := strings.Cut(string(routingKey), ".")
	if !found {
		family = string(routingKey)
	}
	return types.RoutingKey(family + ".error")
}

// PublishEvent is fire-and-forget: it mints a correlation-id if absent and
// returns it, but stores no CorrelationEntry — no reply is expected
// (spec.md §4.5).
func (a *Agent) PublishEvent(ctx context.Context, payload any, routingKey types.RoutingKey, correlationID string) (string, error) {
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	if err := a.publisher.Publish(ctx, payload, routingKey, correlationID, ""); err != nil {
		return "", err
	}
	return correlationID, nil
}

// PublishRequest mints a correlation-id, stores a CorrelationEntry carrying
// requestContext, publishes on routingKey with replyRoutingKey as the
// reply-to, and returns the correlation-id (spec.md §4.5).
func (a *Agent) PublishRequest(ctx context.Context, payload any, routingKey, replyRoutingKey types.RoutingKey, requestContext map[string]any) (string, error) {
	correlationID := uuid.NewString()
	a.correlations.Store(correlationID, CorrelationEntry{
		RequestRoutingKey: string(routingKey),
		ReplyRoutingKey:   string(replyRoutingKey),
		Context:           requestContext,
		CreatedAt:         time.Now(),
	})
	if err := a.publisher.Publish(ctx, payload, routingKey, correlationID, string(replyRoutingKey)); err != nil {
		a.correlations.Clear(correlationID)
		return "", err
	}
	return correlationID, nil
}

// PublishResponse publishes a response on routingKey carrying the caller's
// correlation-id (spec.md §4.5).
func (a *Agent) PublishResponse(ctx context.Context, payload any, routingKey types.RoutingKey, correlationID string) error {
	return a.publisher.Publish(ctx, payload, routingKey, correlationID, "")
}

// GetCorrelationContext returns the stored entry for id, if any.
func (a *Agent) GetCorrelationContext(id string) (CorrelationEntry, bool) {
	return a.correlations.Get(id)
}

// ClearCorrelation removes the entry for id.
func (a *Agent) ClearCorrelation(id string) {
	a.correlations.Clear(id)
}

// CleanupOldCorrelations reaps entries older than maxAge and returns the
// count removed (spec.md §4.5).
func (a *Agent) CleanupOldCorrelations(maxAge time.Duration) int {
	n := a.correlations.CleanupOldCorrelations(maxAge)
	if n > 0 {
		a.events.Publish(&events.Event{Type: events.EventCorrelationReaped, Message: "reaped stale correlations"})
	}
	return n
}
