package types

import "time"

// RoutingKey is a dotted-path string used by the topic exchange to deliver
// a message to every queue whose binding pattern matches.
type RoutingKey string

// Stable, illustrative routing keys from spec.md §6. Collaborators are free
// to declare additional keys; these are the ones the shipped agents use.
const (
	RoutingQueryRequest   RoutingKey = "query.request"
	RoutingQueryResponse  RoutingKey = "query.response"
	RoutingQueryError     RoutingKey = "query.error"
	RoutingRetrievalReq   RoutingKey = "data_retrieval.request"
	RoutingRetrievalResp  RoutingKey = "data_retrieval.response"
	RoutingAnalysisReq    RoutingKey = "analysis.request"
	RoutingAnalysisResult RoutingKey = "analysis.result"
	RoutingAnalysisError  RoutingKey = "analysis.error"
	RoutingNarrativeReq   RoutingKey = "narrative.request"
	RoutingNarrativeGen   RoutingKey = "narrative.generated"
	RoutingFactCheckReq   RoutingKey = "fact_check.request"
	RoutingFactCheckRes   RoutingKey = "fact_check.result"
	RoutingFollowupReq    RoutingKey = "followup.request"
	RoutingFollowupSugg   RoutingKey = "followup.suggestions"
	RoutingMonitorConfig  RoutingKey = "monitoring.rule.config"
	RoutingMonitorAlert   RoutingKey = "monitoring.alert"
)

// DefaultExchange is the durable topic exchange every agent publishes on
// and binds its queue to, per spec.md §6.
const DefaultExchange = "chimera.events"

// Metadata is the per-message metadata sub-record every payload carries
// (spec.md §6). It is distinct from envelope.Envelope: Metadata travels
// inside the JSON body so collaborators who only see a decoded payload
// (not the AMQP properties) can still recover it.
type Metadata struct {
	MessageID     string    `json:"message_id"`
	CorrelationID string    `json:"correlation_id"`
	TimestampMS   int64     `json:"timestamp_ms"`
	SenderAgent   string    `json:"sender_agent"`
	ReplyTo       string    `json:"reply_to,omitempty"`
}

// NewMetadata stamps the current time in milliseconds since epoch, per
// spec.md §3 ("timestamp, milliseconds since epoch").
func NewMetadata(messageID, correlationID, sender, replyTo string) Metadata {
	return Metadata{
		MessageID:     messageID,
		CorrelationID: correlationID,
		TimestampMS:   time.Now().UnixMilli(),
		SenderAgent:   sender,
		ReplyTo:       replyTo,
	}
}
