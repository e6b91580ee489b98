package envelope

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/chimera-labs/chimera/pkg/chimeraerrors"
	"github.com/chimera-labs/chimera/pkg/types"
)

// Envelope is the metadata schema of spec.md §3: message-id, correlation-id,
// timestamp, sender, reply-to, and trace headers. It is created when a
// publish is initiated and is immutable once emitted.
type Envelope struct {
	types.Metadata
	TraceHeaders map[string]string `json:"trace_headers,omitempty"`
}

// BuildMetadata returns the envelope fields for a new outgoing message. A
// fresh message id is always minted; correlationID and replyTo may be
// empty, in which case BuildMetadata mints a correlation id too so every
// envelope has one.
func BuildMetadata(sender, correlationID, replyTo string) Envelope {
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	return Envelope{
		Metadata:     types.NewMetadata(uuid.NewString(), correlationID, sender, replyTo),
		TraceHeaders: map[string]string{},
	}
}

// Serialize marshals a payload to JSON. JSON is the wire format used
// throughout Chimera's messaging fabric (content type carried separately
// in the AMQP properties — see pkg/broker).
func Serialize(payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, chimeraerrors.Wrap(chimeraerrors.KindDataProcessing, "envelope.serialize_failed", "failed to serialize payload", err)
	}
	return body, nil
}

// Deserialize unmarshals bytes into the schema-typed destination pointed
// to by out. A malformed payload is a non-retryable DataProcessing error
// per spec.md §7.
func Deserialize(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return chimeraerrors.Wrap(chimeraerrors.KindDataProcessing, "envelope.deserialize_failed", "failed to deserialize payload", err)
	}
	return nil
}
