package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/chimera-labs/chimera/pkg/alert"
	"github.com/chimera-labs/chimera/pkg/chimeraerrors"
)

// smsMessage is the generic payload posted to an SMS gateway.
type smsMessage struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// SMSSender delivers alerts as SMS through a generic HTTP SMS gateway (e.g.
// Twilio-compatible relay).
type SMSSender struct {
	GatewayURL string
	To         string
	Client     *http.Client
}

func (s *SMSSender) Send(ctx context.Context, a alert.Alert) error {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	msg := smsMessage{
		To:   s.To,
		Body: fmt.Sprintf("[%s] %s: %s %s %.4g", a.Severity, a.RuleName, a.Metric, a.Operator, a.Threshold),
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return chimeraerrors.Wrap(chimeraerrors.KindDataProcessing, "notify.sms_encode_failed", "failed to encode sms payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.GatewayURL, bytes.NewReader(body))
	if err != nil {
		return chimeraerrors.Wrap(chimeraerrors.KindSystem, "notify.sms_request_failed", "failed to build sms request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return chimeraerrors.Wrap(chimeraerrors.KindSystem, "notify.sms_send_failed", "failed to deliver sms", err).WithRetryable(true)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return chimeraerrors.New(chimeraerrors.KindSystem, "notify.sms_rejected", "sms gateway rejected alert").WithRetryable(true)
	}
	return nil
}
