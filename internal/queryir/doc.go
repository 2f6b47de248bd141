// Package queryir provides the filter language of the run log.
//
// A filter is a small predicate tree over run fields, built from
// command-line expressions such as
//
//	dialect=stream
//	qubit_count>=3
//	little_endian=true
//
// Trees are validated against RunFields here and compiled to parameterized
// SQL by package querysql. Keeping the tree separate from SQL lets the CLI
// reject a bad filter before any database is opened.
//
// Query and Predicate are sealed interfaces using the marker method
// pattern. Only types in this package implement them, which keeps the
// type switches in backend compilers exhaustive.
//
// Supported predicates:
//   - Equals: field = value
//   - Compare: field <op> value, integer fields only
//   - And: all predicates must hold (empty = always true)
//
// OR predicates and subqueries are not supported. Values are typed
// (Text, Int, Bool) and must match the field's kind.
package queryir
