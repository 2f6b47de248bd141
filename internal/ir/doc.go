// Package ir provides the canonical circuit intermediate representation.
//
// This package contains the gate and step model handed to the execution
// boundary. All other internal packages import ir; ir imports nothing
// internal.
//
// Key design constraints:
//   - Gates are immutable values; optional fields are pointers and are
//     never mutated after construction
//   - A "ctrl-" prefixed gate always carries exactly one control qubit
//   - Step indices are contiguous from zero
//   - QubitCount is derived from referenced qubits, never from a declared
//     register width
//   - All JSON tags use snake_case
package ir
