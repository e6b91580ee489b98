/*
Package notify implements C14: the notification dispatcher of spec.md
§4.13. Send fans an alert out to a set of channel ids concurrently; each
channel's Sender is looked up in the dispatcher's registry and invoked in
its own goroutine so one channel's failure can never abort delivery to the
others (spec.md §4.13: "one channel's failure MUST NOT abort delivery to
others").

The Sender interface and the registry-of-named-implementations shape follow
pkg/health's multi-kind Checker interface (HTTP/TCP/Exec checkers registered
under a name and invoked uniformly). Four concrete senders are provided per
SPEC_FULL.md's supplemented features: email (net/smtp), webhook (HTTP
POST), push (generic HTTP push-gateway call), and SMS (generic HTTP gateway
call) — no third-party notification SDK appears anywhere in the example
corpus, so these go through net/smtp and net/http directly.
*/
package notify
