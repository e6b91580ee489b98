/*
Package scheduler implements C12: a registry of named periodic jobs running
on the agent's cooperative runtime (spec.md §4.11).

Adapted from the teacher's pkg/scheduler/scheduler.go ticker-driven run loop
(NewTicker + select on stop channel), generalized from a single fixed
5-second container-scheduling cycle to an arbitrary number of independently
ticking, independently intervaled named jobs, each on its own goroutine so a
long-running job never blocks another job's schedule (spec.md §4.11: "long
jobs must not block the scheduler loop").
*/
package scheduler
