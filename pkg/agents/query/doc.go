/*
Package query implements the query-family collaborator of SPEC_FULL.md §0:
it receives a user's question on query.request, records it against the
session store, kicks off a data_retrieval.request on the caller's behalf,
and — when the matching data_retrieval.response arrives — assembles a reply
on query.response using the correlation-id chain described in spec.md §4.5/
§4.6. The actual analytics (parsing the question, composing a real answer)
is out of scope per spec.md §1; this agent exists to exercise the
request/response/correlation machinery end to end.
*/
package query
