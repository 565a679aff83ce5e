// Package viewstate implements the table view-state engine: pure,
// stateless transformations between URL query parameters and table UI
// state (sort column and direction, current page, free-text search).
//
// All state lives in a ParameterMap snapshot derived from the request
// query string. Every operation takes a ParameterMap and returns a new
// one; nothing is mutated in place and nothing is cached, so concurrent
// invocations need no synchronization. The caller (an HTTP handler) is
// the only owner of persistence: it serializes the next ParameterMap
// back into a URL via BuildQueryString and re-renders from it.
package viewstate
