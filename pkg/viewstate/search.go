package viewstate

// ExtractSearchTerm returns the free-text search term stored under
// filter.isearch, or "" when absent. It is a pure projection: the
// engine never searches any data source itself. The returned term is
// untrusted user input and must only reach a query as a bound
// parameter, never by interpolation.
func ExtractSearchTerm(params ParameterMap) string {
	if sub := params.Nested(KeyFilter); sub != nil {
		return sub[KeySearch]
	}
	// accept the pre-flattened form as well
	return params.Get(KeyFilter + "[" + KeySearch + "]")
}
