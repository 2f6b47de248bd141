// Package querysql compiles run-log queries to parameterized SQLite SQL.
package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/qnorm/internal/queryir"
)

// orderAsc is the canonical run order. Every compiled query ends with it.
// COLLATE BINARY keeps text ordering identical across SQLite versions.
const (
	orderAsc  = "seq ASC, id ASC COLLATE BINARY"
	orderDesc = "seq DESC, id DESC COLLATE BINARY"
)

// SQLCompiler compiles queryir queries to parameterized SQL.
//
// Every query includes ORDER BY for deterministic results, and every value
// is bound as a parameter, never interpolated.
type SQLCompiler struct{}

// NewSQLCompiler creates a new SQLCompiler.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{}
}

// Compile validates q and converts it to parameterized SQL.
// Returns (sql, params, error) tuple.
func (c *SQLCompiler) Compile(q queryir.Query) (string, []any, error) {
	if err := queryir.Validate(q).Err(); err != nil {
		return "", nil, err
	}

	switch query := q.(type) {
	case queryir.Select:
		return c.compileSelect(query)
	case *queryir.Select:
		return c.compileSelect(*query)
	default:
		return "", nil, fmt.Errorf("unsupported query type: %T", q)
	}
}

// compileSelect compiles a queryir.Select to SQL.
func (c *SQLCompiler) compileSelect(q queryir.Select) (string, []any, error) {
	columns := strings.Join(q.Columns, ", ")

	var whereClause string
	var params []any
	if q.Filter != nil {
		filterSQL, filterParams, err := c.compilePredicate(q.Filter)
		if err != nil {
			return "", nil, fmt.Errorf("compile filter: %w", err)
		}
		whereClause = " WHERE " + filterSQL
		params = filterParams
	}

	if q.Limit <= 0 {
		sql := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s", columns, q.From, whereClause, orderAsc)
		return sql, params, nil
	}

	// Take the newest rows, then restore ascending order.
	inner := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s LIMIT ?", columns, q.From, whereClause, orderDesc)
	sql := fmt.Sprintf("SELECT %s FROM (%s) ORDER BY %s", columns, inner, orderAsc)
	return sql, append(params, q.Limit), nil
}

// compilePredicate compiles a queryir.Predicate to a WHERE clause fragment.
// Values are never interpolated - always ? placeholders.
func (c *SQLCompiler) compilePredicate(p queryir.Predicate) (string, []any, error) {
	if p == nil {
		return "1 = 1", nil, nil // Always true
	}

	switch pred := p.(type) {
	case queryir.Equals:
		return c.compileComparison(pred.Field, "=", pred.Value)
	case *queryir.Equals:
		return c.compileComparison(pred.Field, "=", pred.Value)
	case queryir.Compare:
		return c.compileComparison(pred.Field, string(pred.Op), pred.Value)
	case *queryir.Compare:
		return c.compileComparison(pred.Field, string(pred.Op), pred.Value)
	case queryir.And:
		return c.compileAnd(pred)
	case *queryir.And:
		return c.compileAnd(*pred)
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

// compileComparison compiles "field <op> ?".
func (c *SQLCompiler) compileComparison(field, op string, v queryir.Value) (string, []any, error) {
	param, err := valueToParam(v)
	if err != nil {
		return "", nil, fmt.Errorf("convert value: %w", err)
	}
	return fmt.Sprintf("%s %s ?", field, op), []any{param}, nil
}

// compileAnd compiles an And predicate to a conjunction.
func (c *SQLCompiler) compileAnd(and queryir.And) (string, []any, error) {
	if len(and.Predicates) == 0 {
		return "1 = 1", nil, nil // Always true (vacuous truth)
	}

	var sqlParts []string
	var allParams []any

	for _, pred := range and.Predicates {
		sql, params, err := c.compilePredicate(pred)
		if err != nil {
			return "", nil, err
		}
		if _, nested := pred.(queryir.And); nested {
			sql = "(" + sql + ")"
		}
		sqlParts = append(sqlParts, sql)
		allParams = append(allParams, params...)
	}

	return strings.Join(sqlParts, " AND "), allParams, nil
}

// valueToParam converts a queryir.Value to a Go native type for a SQL
// parameter. Booleans are stored as 0/1 integers.
func valueToParam(v queryir.Value) (any, error) {
	switch val := v.(type) {
	case queryir.Text:
		return string(val), nil
	case queryir.Int:
		return int64(val), nil
	case queryir.Bool:
		if val {
			return int64(1), nil
		}
		return int64(0), nil
	default:
		return nil, fmt.Errorf("unsupported value type for SQL parameter: %T", v)
	}
}
