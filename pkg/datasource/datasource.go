// Package datasource provides the SQL-backed result-set provider for
// the table view-state engine. It reproduces a resolved view state
// (validated sort field, direction, search term, page) as a
// parameterized query and returns rows together with the pagination
// metadata the engine consumes.
package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gridline/gridline/pkg/schema"
	"github.com/gridline/gridline/pkg/viewstate"
)

// SQLExecutor defines the interface for executing SQL queries.
// This can be a *sql.DB, *sql.Tx, or any adapter that provides these
// methods.
type SQLExecutor interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// RowScanner converts one result row into a value of type T.
type RowScanner[T any] func(rows *sql.Rows) (T, error)

// Table is a paginated, sortable, searchable view over one SQL table.
type Table[T any] struct {
	executor SQLExecutor
	dialect  Dialect
	name     string
	fields   *schema.Fields
	scan     RowScanner[T]
	cfg      viewstate.Config
}

// Result is one page of rows plus the pagination metadata derived from
// the matching row count.
type Result[T any] struct {
	Rows []T
	Meta viewstate.PaginationMetadata
}

// NewTable creates a table data source. name is a code-owned table
// identifier, never user input. fields is the column whitelist every
// sort request is validated against.
func NewTable[T any](
	executor SQLExecutor,
	dialect Dialect,
	name string,
	fields *schema.Fields,
	scan RowScanner[T],
	cfg viewstate.Config,
) *Table[T] {
	return &Table[T]{
		executor: executor,
		dialect:  dialect,
		name:     name,
		fields:   fields,
		scan:     scan,
		cfg:      cfg.Normalize(),
	}
}

// Fetch returns the page of rows selected by the resolved view state.
// The sort field is validated against the whitelist first; an unknown
// or unsortable field fails loudly since it originates from URL
// parameters. The search term only ever reaches the query as a bound
// argument.
//
// An empty result set is a normal state: metadata comes back as page 1
// with zero entries and zero pages.
func (t *Table[T]) Fetch(ctx context.Context, sort viewstate.SortState, term string, page int) (*Result[T], error) {
	if err := t.fields.ValidateSort(sort.Field); err != nil {
		return nil, fmt.Errorf("rejecting sort request: %w", err)
	}
	if page < 1 {
		page = 1
	}

	where, args := t.searchPredicate(term)

	total, err := t.count(ctx, where, args)
	if err != nil {
		return nil, err
	}

	pageSize := t.cfg.DefaultPageSize
	meta := metadataFor(page, pageSize, total)
	if total == 0 {
		return &Result[T]{Rows: []T{}, Meta: meta}, nil
	}

	query := fmt.Sprintf(
		"SELECT * FROM %s%s ORDER BY %s %s LIMIT %s OFFSET %s",
		t.name,
		where,
		sort.Field,
		orderKeyword(sort.Direction),
		t.dialect.Placeholder(len(args)+1),
		t.dialect.Placeholder(len(args)+2),
	)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := t.queryRows(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return &Result[T]{Rows: rows, Meta: meta}, nil
}

// FetchAll returns the full, unpaginated result set under the same
// resolved sort and search state. Exports use this so the file matches
// what is on screen.
func (t *Table[T]) FetchAll(ctx context.Context, sort viewstate.SortState, term string) ([]T, error) {
	if err := t.fields.ValidateSort(sort.Field); err != nil {
		return nil, fmt.Errorf("rejecting sort request: %w", err)
	}

	where, args := t.searchPredicate(term)
	query := fmt.Sprintf(
		"SELECT * FROM %s%s ORDER BY %s %s",
		t.name,
		where,
		sort.Field,
		orderKeyword(sort.Direction),
	)

	return t.queryRows(ctx, query, args)
}

// searchPredicate builds the WHERE clause matching term against all
// searchable columns, OR-combined. Returns an empty clause for an
// empty term.
func (t *Table[T]) searchPredicate(term string) (string, []interface{}) {
	if term == "" {
		return "", nil
	}
	columns := t.fields.Searchable()
	if len(columns) == 0 {
		return "", nil
	}

	clauses := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))
	for i, column := range columns {
		clauses = append(clauses, fmt.Sprintf(
			"%s %s %s", column, t.dialect.LikeOperator(), t.dialect.Placeholder(i+1),
		))
		args = append(args, "%"+term+"%")
	}
	return " WHERE (" + strings.Join(clauses, " OR ") + ")", args
}

func (t *Table[T]) count(ctx context.Context, where string, args []interface{}) (int64, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", t.name, where)

	var total int64
	if err := t.executor.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return total, nil
}

func (t *Table[T]) queryRows(ctx context.Context, query string, args []interface{}) ([]T, error) {
	rows, err := t.executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rows: %w", err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		row, err := t.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}

// metadataFor derives pagination metadata from a total row count.
func metadataFor(page, pageSize int, total int64) viewstate.PaginationMetadata {
	if total == 0 {
		return viewstate.PaginationMetadata{
			Page:         1,
			PageSize:     pageSize,
			TotalEntries: 0,
			TotalPages:   0,
		}
	}
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return viewstate.PaginationMetadata{
		Page:         page,
		PageSize:     pageSize,
		TotalEntries: total,
		TotalPages:   totalPages,
	}
}

func orderKeyword(direction viewstate.Direction) string {
	if direction == viewstate.DirectionDesc {
		return "DESC"
	}
	return "ASC"
}
