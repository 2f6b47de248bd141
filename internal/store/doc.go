// Package store provides the SQLite-backed run log.
//
// Every successful simulator call made by the engine appends one row to the
// runs table: the dialect that was normalized, the content hash and text of
// the IR that crossed the boundary, and the histogram that came back. The
// log is an audit trail. IRs are never read back for execution.
//
// # Ordering
//
// Rows are ordered by seq, a logical clock owned by the engine, never by
// wall time. All listing queries use ORDER BY seq ASC, id ASC COLLATE BINARY
// so two stores holding the same rows list them identically.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
