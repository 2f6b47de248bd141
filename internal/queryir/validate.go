package queryir

import "fmt"

// ValidationResult contains the problems found in a query.
type ValidationResult struct {
	// Valid is true when Errors is empty.
	Valid bool

	// Errors lists every problem, in traversal order.
	Errors []string
}

// Err returns the first problem as an error, or nil.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return fmt.Errorf("invalid query: %s", r.Errors[0])
}

// Validate checks a query against RunFields:
//  1. every referenced field exists
//  2. every value matches its field's kind
//  3. Compare is only used on integer fields, with a known operator
//  4. Select names a table and explicit columns
//
// Validate is a pure function with no side effects.
func Validate(query Query) ValidationResult {
	v := &validator{
		errors: []string{},
	}
	v.validateQuery(query)

	return ValidationResult{
		Valid:  len(v.errors) == 0,
		Errors: v.errors,
	}
}

// validator accumulates errors during traversal.
type validator struct {
	errors []string
}

func (v *validator) addError(format string, args ...any) {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
}

func (v *validator) validateQuery(q Query) {
	switch query := q.(type) {
	case Select:
		v.validateSelect(query)
	case *Select:
		v.validateSelect(*query)
	case nil:
		v.addError("nil query")
	default:
		v.addError("unknown query type: %T", q)
	}
}

func (v *validator) validateSelect(sel Select) {
	if sel.From == "" {
		v.addError("select without table")
	}
	if len(sel.Columns) == 0 {
		v.addError("select without columns")
	}
	if sel.Limit < 0 {
		v.addError("negative limit %d", sel.Limit)
	}
	if sel.Filter != nil {
		v.validatePredicate(sel.Filter)
	}
}

func (v *validator) validatePredicate(p Predicate) {
	switch pred := p.(type) {
	case Equals:
		v.validateField(pred.Field, pred.Value)
	case *Equals:
		v.validateField(pred.Field, pred.Value)
	case Compare:
		v.validateCompare(pred)
	case *Compare:
		v.validateCompare(*pred)
	case And:
		v.validateAnd(pred)
	case *And:
		v.validateAnd(*pred)
	case nil:
	default:
		v.addError("unknown predicate type: %T", p)
	}
}

// validateField checks that field exists and value has its kind.
func (v *validator) validateField(field string, value Value) (Kind, bool) {
	kind, ok := RunFields[field]
	if !ok {
		v.addError("unknown field %q", field)
		return 0, false
	}
	if value == nil {
		v.addError("field %q compared to nil", field)
		return kind, false
	}
	if value.Kind() != kind {
		v.addError("field %q is %s, got %s value", field, kind, value.Kind())
		return kind, false
	}
	return kind, true
}

func (v *validator) validateCompare(c Compare) {
	switch c.Op {
	case OpLess, OpLessEqual, OpGreater, OpGreaterEqual:
	default:
		v.addError("unknown operator %q", c.Op)
	}
	if kind, ok := v.validateField(c.Field, c.Value); ok && kind != KindInt {
		v.addError("field %q is %s; ordered comparison needs an int field", c.Field, kind)
	}
}

func (v *validator) validateAnd(and And) {
	for _, sub := range and.Predicates {
		v.validatePredicate(sub)
	}
}
