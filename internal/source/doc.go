// Package source reads circuits written for the supported front ends and
// converts them into typed, dialect-tagged models.
//
// Three dialects are recognized:
//   - DialectMoment: moment/step circuits (cirq style), qubits are line,
//     grid or named qubits
//   - DialectStream: instruction streams with structural modifiers
//     (Quil style: DAGGER, CONTROLLED, FORKED)
//   - DialectList: plain gate lists with integer qubits (qiskit style)
//
// Every reader performs exactly one conversion into NativeGate values, so
// framework-specific spelling never leaks past this package. Detection is
// done once per document by trying each recognizer in a fixed order.
package source
