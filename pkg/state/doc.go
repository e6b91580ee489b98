/*
Package state implements C11: a durable key-value store of alert rules and
similar persistent configuration, loaded at agent startup (spec.md §4.11 via
§3 AlertRule, §6 key layout `monitoring:rule:<id>`).

Adapted from the teacher's pkg/storage/boltdb.go bucket-per-entity pattern
(JSON-marshal-per-key, db.Update/db.View, ForEach for listing), collapsed to
the single `rules` bucket this domain needs.
*/
package state
