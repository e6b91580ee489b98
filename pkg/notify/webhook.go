package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/chimera-labs/chimera/pkg/alert"
	"github.com/chimera-labs/chimera/pkg/chimeraerrors"
)

// WebhookSender delivers alerts as an HTTP POST of a JSON payload.
type WebhookSender struct {
	URL    string
	Client *http.Client
}

func (s *WebhookSender) Send(ctx context.Context, a alert.Alert) error {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	body, err := json.Marshal(a)
	if err != nil {
		return chimeraerrors.Wrap(chimeraerrors.KindDataProcessing, "notify.webhook_encode_failed", "failed to encode alert payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(body))
	if err != nil {
		return chimeraerrors.Wrap(chimeraerrors.KindSystem, "notify.webhook_request_failed", "failed to build webhook request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return chimeraerrors.Wrap(chimeraerrors.KindSystem, "notify.webhook_send_failed", "failed to deliver webhook", err).WithRetryable(true)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return chimeraerrors.New(chimeraerrors.KindSystem, "notify.webhook_rejected", "webhook endpoint rejected alert").WithRetryable(true)
	}
	return nil
}
