package datasource

import "fmt"

// Dialect selects the SQL placeholder and text-matching syntax for the
// underlying driver.
type Dialect string

// Supported dialects
const (
	// DialectPostgres uses $n placeholders and ILIKE matching.
	DialectPostgres Dialect = "postgres"
	// DialectMySQL uses ? placeholders and LIKE matching.
	DialectMySQL Dialect = "mysql"
)

// Placeholder returns the bind placeholder for the n-th argument
// (1-based).
func (d Dialect) Placeholder(n int) string {
	if d == DialectMySQL {
		return "?"
	}
	return fmt.Sprintf("$%d", n)
}

// LikeOperator returns the case-insensitive pattern-match operator.
// MySQL LIKE is case-insensitive under the default collations, so
// plain LIKE is used there.
func (d Dialect) LikeOperator() string {
	if d == DialectMySQL {
		return "LIKE"
	}
	return "ILIKE"
}
