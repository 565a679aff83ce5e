package viewstate

import "net/url"

// Overrides carries per-transition parameter changes for
// BuildQueryString. String values replace or add keys; a nil value
// drops the key from the output.
type Overrides map[string]any

// reservedKeys are re-projected explicitly so that every state
// transition (page link, sort link, search submit) funnels through the
// same merge rules.
var reservedKeys = [...]string{KeyPage, KeySortField, KeySortDirection}

// BuildQueryString serializes params merged with overrides into a
// canonical, percent-encoded query string. It is the single function
// through which all state transitions become a new URL.
//
// page, sort_field and sort_direction are taken from overrides when
// present, else from params, else omitted. Every other key is merged
// with overrides winning. Keys resolving to nil are dropped. Nested
// sub-maps flatten to "parent[child]" keys. Output key ordering is
// lexicographic, so equal state always yields byte-identical strings.
func BuildQueryString(params ParameterMap, overrides Overrides) string {
	flat := flatten(params)

	for _, key := range reservedKeys {
		v, ok := overrides[key]
		if !ok {
			// keep the value already projected from params, if any
			continue
		}
		if v == nil {
			delete(flat, key)
			continue
		}
		if s, ok := v.(string); ok {
			flat[key] = s
		}
	}

	for key, v := range overrides {
		if isReserved(key) {
			continue
		}
		if v == nil {
			delete(flat, key)
			continue
		}
		if s, ok := v.(string); ok {
			flat[key] = s
		}
	}

	values := make(url.Values, len(flat))
	for key, v := range flat {
		values.Set(key, v)
	}
	return values.Encode()
}

func isReserved(key string) bool {
	for _, r := range reservedKeys {
		if key == r {
			return true
		}
	}
	return false
}

// flatten projects a ParameterMap into a flat string map, encoding
// nested sub-maps as "parent[child]" keys.
func flatten(params ParameterMap) map[string]string {
	flat := make(map[string]string, len(params))
	for key, v := range params {
		switch value := v.(type) {
		case string:
			flat[key] = value
		case map[string]string:
			for child, cv := range value {
				flat[key+"["+child+"]"] = cv
			}
		}
	}
	return flat
}
