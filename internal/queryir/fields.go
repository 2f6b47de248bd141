package queryir

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Kind is the type of a run field.
type Kind int

const (
	KindText Kind = iota
	KindInt
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// RunFields lists the run-log columns a filter may reference.
var RunFields = map[string]Kind{
	"id":                 KindText,
	"seq":                KindInt,
	"dialect":            KindText,
	"ir_hash":            KindText,
	"qubit_count":        KindInt,
	"shots":              KindInt,
	"little_endian":      KindBool,
	"normalizer_version": KindText,
	"ir_version":         KindText,
}

// FieldNames returns the filterable field names in sorted order.
func FieldNames() []string {
	names := make([]string, 0, len(RunFields))
	for name := range RunFields {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// operators in match order: two-character operators first.
var operators = []string{">=", "<=", "=", ">", "<"}

// ParseFilter parses one "field<op>value" expression.
// The value is typed by the field's kind.
func ParseFilter(expr string) (Predicate, error) {
	for _, op := range operators {
		i := strings.Index(expr, op)
		if i <= 0 {
			continue
		}
		field := strings.TrimSpace(expr[:i])
		raw := strings.TrimSpace(expr[i+len(op):])

		kind, ok := RunFields[field]
		if !ok {
			return nil, fmt.Errorf("unknown field %q (fields: %s)", field, strings.Join(FieldNames(), ", "))
		}
		value, err := parseValue(kind, raw)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field, err)
		}
		if op == "=" {
			return Equals{Field: field, Value: value}, nil
		}
		return Compare{Field: field, Op: Op(op), Value: value}, nil
	}
	return nil, fmt.Errorf("invalid filter %q: expected field=value", expr)
}

// ParseFilters parses every expression and joins them with And.
func ParseFilters(exprs []string) (Predicate, error) {
	if len(exprs) == 0 {
		return nil, nil
	}
	preds := make([]Predicate, 0, len(exprs))
	for _, expr := range exprs {
		p, err := ParseFilter(expr)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	if len(preds) == 1 {
		return preds[0], nil
	}
	return And{Predicates: preds}, nil
}

func parseValue(kind Kind, raw string) (Value, error) {
	switch kind {
	case KindInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("expected an integer, got %q", raw)
		}
		return Int(n), nil
	case KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("expected true or false, got %q", raw)
		}
		return Bool(b), nil
	}
	if raw == "" {
		return nil, fmt.Errorf("empty value")
	}
	return Text(raw), nil
}
