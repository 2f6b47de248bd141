package queryir

// Query represents a run-log query.
//
// This is a sealed interface - only types in this package implement it.
type Query interface {
	queryNode() // Marker method - seals interface to this package
}

// Predicate represents a filter condition.
//
// This is a sealed interface - only types in this package implement it.
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// Value is a typed literal compared against a field.
type Value interface {
	Kind() Kind
}

// Text is a string literal.
type Text string

// Int is an integer literal.
type Int int64

// Bool is a boolean literal.
type Bool bool

func (Text) Kind() Kind { return KindText }
func (Int) Kind() Kind  { return KindInt }
func (Bool) Kind() Kind { return KindBool }

// Select reads rows from a table.
//
// Semantics:
//
//	SELECT <columns> FROM <from> WHERE <filter> ORDER BY seq, id
//
// A positive Limit keeps only the most recent Limit rows; the result is
// still returned in ascending seq order.
type Select struct {
	From    string    // Table name (e.g., "runs")
	Columns []string  // Explicit column list, in scan order
	Filter  Predicate // WHERE conditions (nil = no filter)
	Limit   int       // Most recent N rows (0 = all)
}

func (Select) queryNode() {}

// Equals represents a field-equals-literal predicate.
//
//	Equals{Field: "dialect", Value: Text("stream")}
//
// Translates to SQL:
//
//	dialect = ?
type Equals struct {
	Field string
	Value Value
}

func (Equals) predicateNode() {}

// Op is a comparison operator for Compare.
type Op string

const (
	OpLess         Op = "<"
	OpLessEqual    Op = "<="
	OpGreater      Op = ">"
	OpGreaterEqual Op = ">="
)

// Compare represents an ordered comparison on an integer field.
//
//	Compare{Field: "qubit_count", Op: OpGreaterEqual, Value: Int(3)}
type Compare struct {
	Field string
	Op    Op
	Value Value
}

func (Compare) predicateNode() {}

// And represents a conjunction of predicates (all must be true).
// An empty Predicates slice is always true.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}
