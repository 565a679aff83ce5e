package viewstate

// Direction defines the sort direction for a column.
type Direction string

// Sort direction constants
const (
	// DirectionAsc sorts in ascending order
	DirectionAsc Direction = "asc"
	// DirectionDesc sorts in descending order
	DirectionDesc Direction = "desc"
)

// SortState is the resolved (direction, field) pair governing row
// ordering. Field names originate from untrusted URL parameters; the
// caller must validate Field against its schema whitelist before the
// value reaches any query.
type SortState struct {
	Direction Direction
	Field     string
}

// ResolveSort derives the sort state from params. It returns the
// (direction, field) pair when sort_direction is exactly "asc" or
// "desc" and sort_field is present; any malformed or missing value
// silently falls back to ascending order on defaultField. It never
// fails: validation of the field against a concrete schema is the
// caller's responsibility.
func ResolveSort(params ParameterMap, defaultField string) SortState {
	dir := Direction(params.Get(KeySortDirection))
	field := params.Get(KeySortField)
	if (dir == DirectionAsc || dir == DirectionDesc) && field != "" {
		return SortState{Direction: dir, Field: field}
	}
	return SortState{Direction: DirectionAsc, Field: defaultField}
}

// NextSortParams computes the parameter map produced by clicking the
// sort header of targetField.
//
// When targetField is already the active sort field (compared as raw
// strings, before any validation) the direction toggles: "asc" becomes
// "desc", anything else becomes "asc". This is a strict two-state
// toggle; there is no unsorted state once a column has been sorted.
// A click on a different column starts it in descending order.
//
// All other keys, including the current page, carry over unchanged.
func NextSortParams(params ParameterMap, targetField string) ParameterMap {
	next := params.Clone()

	direction := DirectionDesc
	if params.Get(KeySortField) == targetField {
		if Direction(params.Get(KeySortDirection)) == DirectionAsc {
			direction = DirectionDesc
		} else {
			direction = DirectionAsc
		}
	}

	next[KeySortField] = targetField
	next[KeySortDirection] = string(direction)
	return next
}
