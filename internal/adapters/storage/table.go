package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownColumn is returned when a query names a column the table does not whitelist.
var ErrUnknownColumn = errors.New("unknown column")

// Comparison operators accepted by Cond.
const (
	OpEq    = "="
	OpNotEq = "<>"
	OpGTE   = ">="
	OpLT    = "<"
	// OpLike matches case-insensitively: LOWER(column) LIKE lower(value).
	OpLike = "LIKE"
	// OpIsNull ignores Value.
	OpIsNull = "IS NULL"
	// OpIn takes a []string. An empty list matches no rows.
	OpIn = "IN"
)

// Cond is one predicate of a WHERE clause. Conditions are joined with AND.
type Cond struct {
	Column string
	Op     string
	Value  any
}

// Eq builds an equality predicate.
func Eq(column string, value any) Cond {
	return Cond{Column: column, Op: OpEq, Value: value}
}

// Query selects rows from a Table.
type Query struct {
	// Columns defaults to every column of the table, in declaration order.
	Columns []string
	Where   []Cond
	OrderBy string
	Desc    bool
	Limit   int
	Offset  int
}

// Table is a row-level query builder over a fixed, whitelisted column set.
// Every identifier that reaches SQL comes from Columns, never from callers.
type Table struct {
	Name    string
	Columns []string
	known   map[string]bool
}

// NewTable declares a table and its columns.
// PRE: name and columns are trusted identifiers
// POST: Queries against the table reject any other column
func NewTable(name string, columns ...string) *Table {
	known := make(map[string]bool, len(columns))
	for _, c := range columns {
		known[c] = true
	}
	return &Table{Name: name, Columns: columns, known: known}
}

func (t *Table) check(columns ...string) error {
	for _, c := range columns {
		if !t.known[c] {
			return fmt.Errorf("%w %q on table %s", ErrUnknownColumn, c, t.Name)
		}
	}
	return nil
}

func (t *Table) where(conds []Cond, args []any) (string, []any, error) {
	if len(conds) == 0 {
		return "", args, nil
	}
	parts := make([]string, 0, len(conds))
	for _, c := range conds {
		if err := t.check(c.Column); err != nil {
			return "", nil, err
		}
		switch c.Op {
		case OpEq, OpNotEq, OpGTE, OpLT:
			parts = append(parts, c.Column+" "+c.Op+" ?")
			args = append(args, c.Value)
		case OpLike:
			parts = append(parts, "LOWER("+c.Column+") LIKE ?")
			args = append(args, strings.ToLower(fmt.Sprint(c.Value)))
		case OpIsNull:
			parts = append(parts, c.Column+" IS NULL")
		case OpIn:
			values, ok := c.Value.([]string)
			if !ok {
				return "", nil, fmt.Errorf("IN on %s needs a []string", c.Column)
			}
			if len(values) == 0 {
				parts = append(parts, "1 = 0")
				continue
			}
			marks := make([]string, len(values))
			for i, v := range values {
				marks[i] = "?"
				args = append(args, v)
			}
			parts = append(parts, c.Column+" IN ("+strings.Join(marks, ", ")+")")
		default:
			return "", nil, fmt.Errorf("unsupported operator %q", c.Op)
		}
	}
	return " WHERE " + strings.Join(parts, " AND "), args, nil
}

// SelectSQL renders a SELECT for q.
// PRE: none
// POST: Returns ErrUnknownColumn for any column outside the whitelist
func (t *Table) SelectSQL(q Query) (string, []any, error) {
	cols := q.Columns
	if len(cols) == 0 {
		cols = t.Columns
	}
	if err := t.check(cols...); err != nil {
		return "", nil, err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", strings.Join(cols, ", "), t.Name)
	where, args, err := t.where(q.Where, nil)
	if err != nil {
		return "", nil, err
	}
	b.WriteString(where)
	if q.OrderBy != "" {
		if err := t.check(q.OrderBy); err != nil {
			return "", nil, err
		}
		b.WriteString(" ORDER BY " + q.OrderBy)
		if q.Desc {
			b.WriteString(" DESC")
		}
	}
	if q.Limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, q.Limit)
		if q.Offset > 0 {
			b.WriteString(" OFFSET ?")
			args = append(args, q.Offset)
		}
	}
	return b.String(), args, nil
}

// InsertSQL renders an INSERT of values. Columns are emitted in sorted order.
func (t *Table) InsertSQL(values map[string]any) (string, []any, error) {
	if len(values) == 0 {
		return "", nil, errors.New("insert needs at least one column")
	}
	cols := sortedKeys(values)
	if err := t.check(cols...); err != nil {
		return "", nil, err
	}
	args := make([]any, len(cols))
	placeholders := make([]string, len(cols))
	for i, c := range cols {
		args[i] = values[c]
		placeholders[i] = "?"
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		t.Name, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	return query, args, nil
}

// UpdateSQL renders an UPDATE setting only the given columns.
// PRE: where is non-empty; whole-table updates are refused
func (t *Table) UpdateSQL(set map[string]any, where []Cond) (string, []any, error) {
	if len(set) == 0 {
		return "", nil, errors.New("update needs at least one column")
	}
	if len(where) == 0 {
		return "", nil, errors.New("update needs a where clause")
	}
	cols := sortedKeys(set)
	if err := t.check(cols...); err != nil {
		return "", nil, err
	}
	assignments := make([]string, len(cols))
	args := make([]any, 0, len(cols)+len(where))
	for i, c := range cols {
		assignments[i] = c + " = ?"
		args = append(args, set[c])
	}
	whereSQL, args, err := t.where(where, args)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("UPDATE %s SET %s%s", t.Name, strings.Join(assignments, ", "), whereSQL), args, nil
}

// Select runs q and returns the open rows.
func (t *Table) Select(ctx context.Context, db Querier, q Query) (*sql.Rows, error) {
	query, args, err := t.SelectSQL(q)
	if err != nil {
		return nil, err
	}
	return db.QueryContext(ctx, query, args...)
}

// SelectOne runs q with a limit of one and scans the row with scan.
// PRE: scan matches q.Columns (or the table columns)
// POST: Returns ErrNotFound (wrapped by the caller) when no row matches
func (t *Table) SelectOne(ctx context.Context, db Querier, q Query, scan func(*sql.Row) error) error {
	q.Limit = 1
	query, args, err := t.SelectSQL(q)
	if err != nil {
		return err
	}
	return scan(db.QueryRowContext(ctx, query, args...))
}

// Insert writes one row.
func (t *Table) Insert(ctx context.Context, db Querier, values map[string]any) error {
	query, args, err := t.InsertSQL(values)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, query, args...)
	return err
}

// Update changes the given columns on matching rows and returns how many rows matched.
func (t *Table) Update(ctx context.Context, db Querier, set map[string]any, where []Cond) (int64, error) {
	query, args, err := t.UpdateSQL(set, where)
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete removes matching rows.
// PRE: where is non-empty
func (t *Table) Delete(ctx context.Context, db Querier, where []Cond) (int64, error) {
	if len(where) == 0 {
		return 0, errors.New("delete needs a where clause")
	}
	whereSQL, args, err := t.where(where, nil)
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, "DELETE FROM "+t.Name+whereSQL, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Count returns the number of matching rows.
func (t *Table) Count(ctx context.Context, db Querier, where []Cond) (int, error) {
	whereSQL, args, err := t.where(where, nil)
	if err != nil {
		return 0, err
	}
	var n int
	err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+t.Name+whereSQL, args...).Scan(&n)
	return n, err
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
