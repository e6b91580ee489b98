/*
Package monitoring implements the monitoring-family collaborator: it owns
the pkg/alert engine and pkg/notify dispatcher, applying rule changes that
arrive on monitoring.rule.config and evaluating every analysis.result
against the active rule set, publishing monitoring.alert and dispatching
notifications when a rule fires.
*/
package monitoring
