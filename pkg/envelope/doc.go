/*
Package envelope implements C9: the message envelope schema and the
serialize/deserialize helpers that are the only points where payload-schema
knowledge enters the messaging core (spec.md §4.9). Everything above this
package — the agent core, the broker — holds payloads as opaque bytes plus
an Envelope of metadata; only a collaborator that knows a concrete payload
type calls Serialize/Deserialize.
*/
package envelope
