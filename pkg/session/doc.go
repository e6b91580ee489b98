/*
Package session implements C10: the external key-value store of per-session
conversation history and merged entity/time/metric context (spec.md §4.10).

Context is stored as a single JSON blob per session under
`chimera:context:<session-id>` in Redis, read-modify-written under a
per-process mutex keyed by session id to keep append_query's last-10 cap
atomic against concurrent handlers on the same process. TTL slides on every
read and write, per spec.md §3 SessionContext's "TTL sliding on every read
or write" invariant.
*/
package session
