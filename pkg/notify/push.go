package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/chimera-labs/chimera/pkg/alert"
	"github.com/chimera-labs/chimera/pkg/chimeraerrors"
)

// pushMessage is the generic payload posted to a push-notification gateway.
type pushMessage struct {
	DeviceToken string `json:"device_token"`
	Title       string `json:"title"`
	Body        string `json:"body"`
}

// PushSender delivers alerts as push notifications through a generic HTTP
// push gateway (e.g. Firebase/APNs relay).
type PushSender struct {
	GatewayURL  string
	DeviceToken string
	Client      *http.Client
}

func (s *PushSender) Send(ctx context.Context, a alert.Alert) error {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	msg := pushMessage{
		DeviceToken: s.DeviceToken,
		Title:       string(a.Severity) + ": " + a.RuleName,
		Body:        a.Metric + " " + string(a.Operator) + " threshold",
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return chimeraerrors.Wrap(chimeraerrors.KindDataProcessing, "notify.push_encode_failed", "failed to encode push payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.GatewayURL, bytes.NewReader(body))
	if err != nil {
		return chimeraerrors.Wrap(chimeraerrors.KindSystem, "notify.push_request_failed", "failed to build push request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return chimeraerrors.Wrap(chimeraerrors.KindSystem, "notify.push_send_failed", "failed to deliver push notification", err).WithRetryable(true)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return chimeraerrors.New(chimeraerrors.KindSystem, "notify.push_rejected", "push gateway rejected alert").WithRetryable(true)
	}
	return nil
}
