package viewstate

import (
	"net/url"
	"strconv"
	"strings"
)

// Recognized parameter keys. Any other key is opaque to the engine and
// passes through state transitions unchanged.
const (
	// KeySortField holds the identifier of the column to sort by.
	KeySortField = "sort_field"
	// KeySortDirection holds the sort direction ("asc" or "desc").
	KeySortDirection = "sort_direction"
	// KeyPage holds the 1-based current page number.
	KeyPage = "page"
	// KeyFilter is the nested sub-map carrying filter parameters.
	KeyFilter = "filter"
	// KeySearch is the free-text search key inside the filter sub-map.
	KeySearch = "isearch"
)

// ParameterMap is the canonical representation of all observable table
// view state, as decoded from an HTTP query string. Leaf values are
// strings; one level of nesting is supported for sub-maps such as
// "filter" (stored as map[string]string).
//
// ParameterMap values are treated as immutable snapshots: engine
// operations never modify their input, they return a fresh map.
type ParameterMap map[string]any

// Get returns the string leaf value for key, or "" when the key is
// absent or holds a nested map.
func (p ParameterMap) Get(key string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return ""
}

// Nested returns the one-level sub-map stored under key, or nil when
// the key is absent or holds a string leaf.
func (p ParameterMap) Nested(key string) map[string]string {
	if v, ok := p[key].(map[string]string); ok {
		return v
	}
	return nil
}

// Page returns the current page number, defaulting to 1 when the
// parameter is absent, malformed, or less than 1.
func (p ParameterMap) Page() int {
	n, err := strconv.Atoi(p.Get(KeyPage))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Clone returns a copy of the map, copying nested sub-maps so the
// original snapshot stays untouched.
func (p ParameterMap) Clone() ParameterMap {
	out := make(ParameterMap, len(p))
	for k, v := range p {
		if sub, ok := v.(map[string]string); ok {
			subCopy := make(map[string]string, len(sub))
			for sk, sv := range sub {
				subCopy[sk] = sv
			}
			out[k] = subCopy
			continue
		}
		out[k] = v
	}
	return out
}

// ParseQuery decodes URL query values into a ParameterMap. Keys of the
// form "parent[child]" become entries in a nested sub-map under
// "parent"; every other key becomes a string leaf. Repeated keys keep
// the first value.
func ParseQuery(values url.Values) ParameterMap {
	params := make(ParameterMap, len(values))
	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		parent, child, ok := splitBracketKey(key)
		if !ok {
			if _, exists := params[key]; !exists {
				params[key] = vals[0]
			}
			continue
		}
		sub, _ := params[parent].(map[string]string)
		if sub == nil {
			sub = make(map[string]string)
			params[parent] = sub
		}
		if _, exists := sub[child]; !exists {
			sub[child] = vals[0]
		}
	}
	return params
}

// splitBracketKey splits "parent[child]" into its parts. Returns
// ok=false for keys without a single well-formed bracket pair.
func splitBracketKey(key string) (parent, child string, ok bool) {
	open := strings.IndexByte(key, '[')
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return "", "", false
	}
	child = key[open+1 : len(key)-1]
	if child == "" || strings.ContainsAny(child, "[]") {
		return "", "", false
	}
	return key[:open], child, true
}
