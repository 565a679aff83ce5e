package httpbind

import (
	"net/http"
	"net/url"

	"github.com/gridline/gridline/pkg/viewstate"
)

// ParamsFromRequest decodes the request query string into a parameter
// map.
func ParamsFromRequest(r *http.Request) viewstate.ParameterMap {
	return viewstate.ParseQuery(r.URL.Query())
}

// ParamsFromValues decodes already-parsed query values into a
// parameter map.
func ParamsFromValues(values url.Values) viewstate.ParameterMap {
	return viewstate.ParseQuery(values)
}
