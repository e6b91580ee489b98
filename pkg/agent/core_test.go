package agent

import (
	"context"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chimera-labs/chimera/pkg/chimeraerrors"
	"github.com/chimera-labs/chimera/pkg/events"
	"github.com/chimera-labs/chimera/pkg/types"
)

// fakePublisher records every Publish call so dispatch's error-envelope
// path can be asserted on without a live broker connection.
type fakePublisher struct {
	calls []fakePublish
}

type fakePublish struct {
	payload       any
	routingKey    types.RoutingKey
	correlationID string
	replyTo       string
}

func (f *fakePublisher) Publish(_ context.Context, payload any, routingKey types.RoutingKey, correlationID, replyTo string) error {
	f.calls = append(f.calls, fakePublish{payload: payload, routingKey: routingKey, correlationID: correlationID, replyTo: replyTo})
	return nil
}

func newTestAgentWithPublisher(name string, routes RouteMap, pub *fakePublisher) *Agent {
	return &Agent{name: name, publisher: pub, routes: routes, events: events.NewBroker()}
}

func TestDispatchInvokesRegisteredRoute(t *testing.T) {
	invoked := false
	a := New(nil, Config{
		Name:     "test-agent",
		Exchange: types.DefaultExchange,
		Routes: RouteMap{
			types.RoutingQueryRequest: func(ctx context.Context, body []byte, headers amqp.Table) error {
				invoked = true
				return nil
			},
		},
	})

	err := a.dispatch(context.Background(), types.RoutingQueryRequest, []byte(`{}`), amqp.Table{})
	require.NoError(t, err)
	assert.True(t, invoked)
}

func TestDispatchFailsOnUnregisteredRoutingKey(t *testing.T) {
	pub := &fakePublisher{}
	a := newTestAgentWithPublisher("test-agent", RouteMap{}, pub)

	err := a.dispatch(context.Background(), types.RoutingQueryRequest, nil, amqp.Table{})
	assert.Error(t, err)
}

func TestDispatchPublishesErrorEnvelopeOnUnregisteredRoutingKey(t *testing.T) {
	pub := &fakePublisher{}
	a := newTestAgentWithPublisher("test-agent", RouteMap{}, pub)

	_ = a.dispatch(context.Background(), types.RoutingQueryRequest, nil, amqp.Table{"correlation_id": "corr-1"})

	require.Len(t, pub.calls, 1)
	assert.Equal(t, types.RoutingKey("query.error"), pub.calls[0].routingKey)
	assert.Equal(t, "corr-1", pub.calls[0].correlationID)
	envelope, ok := pub.calls[0].payload.(chimeraerrors.Envelope)
	require.True(t, ok)
	assert.Equal(t, "corr-1", envelope.RequestID)
}

func TestDispatchPublishesErrorEnvelopeOnHandlerFailure(t *testing.T) {
	pub := &fakePublisher{}
	handlerErr := chimeraerrors.New(chimeraerrors.KindAnalysis, "analysis.bad_input", "bad input").WithRetryable(false)
	a := newTestAgentWithPublisher("test-agent", RouteMap{
		types.RoutingAnalysisReq: func(ctx context.Context, body []byte, headers amqp.Table) error {
			return handlerErr
		},
	}, pub)

	err := a.dispatch(context.Background(), types.RoutingAnalysisReq, nil, amqp.Table{"correlation_id": "corr-2"})
	require.Error(t, err)
	require.Len(t, pub.calls, 1)
	assert.Equal(t, types.RoutingKey("analysis.error"), pub.calls[0].routingKey)

	envelope, ok := pub.calls[0].payload.(chimeraerrors.Envelope)
	require.True(t, ok)
	assert.Equal(t, "analysis.bad_input", envelope.Error.Code)
	assert.False(t, envelope.Error.Retryable)
}

func TestErrorRoutingKeyForDerivesFamilyPrefix(t *testing.T) {
	assert.Equal(t, types.RoutingKey("query.error"), errorRoutingKeyFor(types.RoutingQueryRequest))
	assert.Equal(t, types.RoutingKey("data_retrieval.error"), errorRoutingKeyFor(types.RoutingRetrievalResp))
	assert.Equal(t, types.RoutingKey("weird.error"), errorRoutingKeyFor(types.RoutingKey("weird")))
}

func TestHandleDispatchErrorWrapsNonDomainErrors(t *testing.T) {
	pub := &fakePublisher{}
	a := newTestAgentWithPublisher("test-agent", RouteMap{}, pub)

	a.handleDispatchError(context.Background(), types.RoutingQueryRequest, amqp.Table{}, errors.New("boom"))

	require.Len(t, pub.calls, 1)
	envelope, ok := pub.calls[0].payload.(chimeraerrors.Envelope)
	require.True(t, ok)
	assert.Equal(t, "agent.handler_failed", envelope.Error.Code)
}
