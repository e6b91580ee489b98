// Package events is a small in-process pub/sub broker, separate from
// pkg/broker's AMQP transport. Every pkg/agent.Agent owns one; it broadcasts
// dispatch and correlation-reap activity to any local Subscriber without
// putting anything on the wire or touching Prometheus. Intended for tests
// and an eventual "tail this agent" CLI, not for inter-agent communication.
package events
