/*
Package followup implements the followup-family collaborator: it consumes
followup.request, pulls the session's merged entity/time/metric context via
pkg/session's ExtractForQuery, and publishes a small set of templated
follow-up suggestions on followup.suggestions.
*/
package followup
