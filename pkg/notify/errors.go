package notify

import "github.com/chimera-labs/chimera/pkg/chimeraerrors"

func errUnknownChannel(channelID string) error {
	return chimeraerrors.New(chimeraerrors.KindSystem, "notify.unknown_channel", "no sender registered for notification channel "+channelID)
}
