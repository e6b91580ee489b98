package notify

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/chimera-labs/chimera/pkg/alert"
	"github.com/chimera-labs/chimera/pkg/chimeraerrors"
)

// EmailSender delivers alerts as plain-text email via SMTP.
type EmailSender struct {
	Addr string // host:port
	Auth smtp.Auth
	From string
	To   []string
}

func (s *EmailSender) Send(ctx context.Context, a alert.Alert) error {
	body := fmt.Sprintf(
		"Subject: [%s] %s\r\n\r\nRule %s fired: %s %s %.4g (observed %.4g) at %s\r\n",
		a.Severity, a.RuleName, a.RuleID, a.Metric, a.Operator, a.Threshold, a.Value, a.Timestamp,
	)

	if err := smtp.SendMail(s.Addr, s.Auth, s.From, s.To, []byte(body)); err != nil {
		return chimeraerrors.Wrap(chimeraerrors.KindSystem, "notify.email_send_failed", "failed to send alert email", err).WithRetryable(true)
	}
	return nil
}
