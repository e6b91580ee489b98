package notify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chimera-labs/chimera/pkg/alert"
	"github.com/chimera-labs/chimera/pkg/state"
)

type fakeSender struct {
	err error
}

func (f *fakeSender) Send(ctx context.Context, a alert.Alert) error {
	return f.err
}

func testAlert() alert.Alert {
	return alert.Alert{RuleID: "rule-1", RuleName: "test", Metric: "btc_price", Operator: state.OperatorGreaterThan, Threshold: 100}
}

func TestSendDeliversToEveryRegisteredChannel(t *testing.T) {
	d := NewDispatcher()
	d.RegisterChannel("a", &fakeSender{})
	d.RegisterChannel("b", &fakeSender{})

	results := d.Send(context.Background(), testAlert(), []string{"a", "b"})
	require.Len(t, results, 2)
	for _, r := range results {
		assert.NoError(t, r.Err)
	}
}

func TestSendIsolatesOneChannelFailureFromOthers(t *testing.T) {
	d := NewDispatcher()
	d.RegisterChannel("good", &fakeSender{})
	d.RegisterChannel("bad", &fakeSender{err: errors.New("boom")})

	results := d.Send(context.Background(), testAlert(), []string{"good", "bad"})
	require.Len(t, results, 2)

	byID := make(map[string]Result)
	for _, r := range results {
		byID[r.ChannelID] = r
	}
	assert.NoError(t, byID["good"].Err)
	assert.Error(t, byID["bad"].Err)
}

func TestSendReportsUnknownChannelAsAFailure(t *testing.T) {
	d := NewDispatcher()
	results := d.Send(context.Background(), testAlert(), []string{"missing"})
	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
}

func TestRemoveChannelMakesSubsequentSendFail(t *testing.T) {
	d := NewDispatcher()
	d.RegisterChannel("a", &fakeSender{})
	d.RemoveChannel("a")

	results := d.Send(context.Background(), testAlert(), []string{"a"})
	assert.Error(t, results[0].Err)
}

func TestWebhookSenderPostsJSONPayload(t *testing.T) {
	var gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sender := &WebhookSender{URL: server.URL}
	err := sender.Send(context.Background(), testAlert())
	require.NoError(t, err)
	assert.Equal(t, "application/json", gotContentType)
}

func TestWebhookSenderReturnsErrorOnNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	sender := &WebhookSender{URL: server.URL}
	err := sender.Send(context.Background(), testAlert())
	assert.Error(t, err)
}

func TestPushSenderPostsPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sender := &PushSender{GatewayURL: server.URL, DeviceToken: "tok-1"}
	assert.NoError(t, sender.Send(context.Background(), testAlert()))
}

func TestSMSSenderPostsPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sender := &SMSSender{GatewayURL: server.URL, To: "+15555550100"}
	assert.NoError(t, sender.Send(context.Background(), testAlert()))
}
