// Package compiler normalizes dialect-tagged source circuits into the
// canonical IR.
//
// Compilation runs in three stages, each request-local and pure:
//   - qubit resolution (IndexMap for moment circuits, identity otherwise)
//   - gate translation through per-dialect tables (Translate) followed by
//     modifier reduction (Resolve)
//   - step assembly with contiguous indices
//
// Errors are raised eagerly with the position of the offending
// instruction. No partial IR is ever returned.
package compiler
