// Package schema defines the explicit whitelist of table column
// identifiers. Sort fields and search targets arrive as raw URL
// parameters, so every identifier must pass through this whitelist
// before it is used to build a query; an unknown field is a loud,
// typed error rather than a silent fallback.
package schema

import (
	"fmt"
	"sort"
)

// Field describes one whitelisted column.
type Field struct {
	// Name is the column identifier as it appears in parameters and in
	// the data source.
	Name string
	// Sortable marks the column as a valid sort target.
	Sortable bool
	// Searchable marks the column as a target for free-text search.
	Searchable bool
}

// Fields is the whitelist of recognized columns, keyed by name.
type Fields struct {
	byName map[string]Field
}

// UnknownFieldError reports a field identifier outside the whitelist.
type UnknownFieldError struct {
	Field string
}

// Error implements the error interface.
func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q", e.Field)
}

// NotSortableError reports a whitelisted field that cannot be sorted on.
type NotSortableError struct {
	Field string
}

// Error implements the error interface.
func (e *NotSortableError) Error() string {
	return fmt.Sprintf("field %q is not sortable", e.Field)
}

// New builds a whitelist from the given fields. Duplicate names keep
// the last definition.
func New(fields ...Field) *Fields {
	byName := make(map[string]Field, len(fields))
	for _, f := range fields {
		byName[f.Name] = f
	}
	return &Fields{byName: byName}
}

// ValidateSort checks that name identifies a whitelisted, sortable
// column. It returns *UnknownFieldError for identifiers outside the
// whitelist and *NotSortableError for known but unsortable columns.
func (f *Fields) ValidateSort(name string) error {
	field, ok := f.byName[name]
	if !ok {
		return &UnknownFieldError{Field: name}
	}
	if !field.Sortable {
		return &NotSortableError{Field: name}
	}
	return nil
}

// Contains reports whether name is in the whitelist.
func (f *Fields) Contains(name string) bool {
	_, ok := f.byName[name]
	return ok
}

// Searchable returns the names of all searchable columns in stable
// (lexicographic) order.
func (f *Fields) Searchable() []string {
	names := make([]string, 0, len(f.byName))
	for name, field := range f.byName {
		if field.Searchable {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Names returns all whitelisted column names in stable (lexicographic)
// order.
func (f *Fields) Names() []string {
	names := make([]string, 0, len(f.byName))
	for name := range f.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
