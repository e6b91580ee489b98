package notify

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/chimera-labs/chimera/pkg/alert"
	"github.com/chimera-labs/chimera/pkg/log"
	"github.com/chimera-labs/chimera/pkg/metrics"
)

// Sender delivers an alert over one channel.
type Sender interface {
	Send(ctx context.Context, a alert.Alert) error
}

// Result is one channel's delivery outcome.
type Result struct {
	ChannelID string
	Err       error
}

// Dispatcher is the notification dispatcher of C14: a registry of named
// Senders, invoked with per-channel error isolation.
type Dispatcher struct {
	logger zerolog.Logger

	mu       sync.RWMutex
	channels map[string]Sender
}

// NewDispatcher creates an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		logger:   log.WithComponent("notify"),
		channels: make(map[string]Sender),
	}
}

// RegisterChannel adds or replaces the Sender for channelID.
func (d *Dispatcher) RegisterChannel(channelID string, sender Sender) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.channels[channelID] = sender
}

// RemoveChannel deregisters channelID.
func (d *Dispatcher) RemoveChannel(channelID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.channels, channelID)
}

// Send dispatches a to every channel in channelIDs concurrently, looking
// each up in the registry. An unknown channel id and a Sender's delivery
// failure are both reported as a Result with a non-nil Err; neither aborts
// delivery to the remaining channels (spec.md §4.13).
func (d *Dispatcher) Send(ctx context.Context, a alert.Alert, channelIDs []string) []Result {
	results := make([]Result, len(channelIDs))

	var wg sync.WaitGroup
	for i, id := range channelIDs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			results[i] = d.sendOne(ctx, a, id)
		}(i, id)
	}
	wg.Wait()

	return results
}

func (d *Dispatcher) sendOne(ctx context.Context, a alert.Alert, channelID string) Result {
	d.mu.RLock()
	sender, ok := d.channels[channelID]
	d.mu.RUnlock()

	if !ok {
		d.logger.Error().Str("channel_id", channelID).Msg("unknown notification channel")
		metrics.NotificationsSentTotal.WithLabelValues(channelID, "unknown_channel").Inc()
		return Result{ChannelID: channelID, Err: errUnknownChannel(channelID)}
	}

	if err := sender.Send(ctx, a); err != nil {
		d.logger.Error().Err(err).Str("channel_id", channelID).Str("rule_id", a.RuleID).Msg("notification delivery failed")
		metrics.NotificationsSentTotal.WithLabelValues(channelID, "failure").Inc()
		return Result{ChannelID: channelID, Err: err}
	}
	metrics.NotificationsSentTotal.WithLabelValues(channelID, "success").Inc()
	return Result{ChannelID: channelID}
}
