// Package httpbind binds the table view-state engine to HTTP. It
// decodes request query strings into parameter maps, serves a JSON
// view model (rows, resolved sort, page window, navigation links), and
// streams exports under the identical resolved state. Adapters mount
// the handlers on gin or gorilla/mux; middleware adds request IDs,
// structured request logging, Prometheus metrics, tracing spans, and
// rate limiting for the export endpoint.
package httpbind
