// Package harness runs conformance scenarios against the normalizer.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: bell_moment
//	description: "H then CNOT in the moment dialect"
//	circuit: ../circuits/bell.yaml   # path, relative to the scenario file
//	expect:
//	  dialect: moment
//	  qubit_count: 2
//	  steps:
//	    - index: 0
//	      gates: [{name: hadamard, target: 0}]
//	    - index: 1
//	      gates: [{name: ctrl-pauli-x, target: 1, control: 0}]
//	execute:
//	  shots: 100
//	  counts: {"00": 50, "11": 50}
//	  calls: 1
//	assertions:
//	  - type: contains_gate
//	    gate: {name: hadamard}
//
// Instead of circuit, a scenario may carry the document inline under source,
// with format naming its reader (yaml, json, quil, qasm or cue). A scenario
// that should fail sets expect.error to the stable error code, for example
// E202 for an unsupported modifier.
//
// # Assertion Types
//
//   - step_count: the IR has exactly count steps
//   - gate_count: the IR has exactly count gates
//   - contains_gate: some gate matches the given fields (subset match)
//   - no_gate: no gate has the given name
//   - gate_order: the named gates appear in this order
//
// # Execution
//
// When execute is present the scenario runs through engine.Engine with a
// recording simulator that answers with counts, and a fresh in-memory run
// log. The expected histogram and simulator call count are then checked, so
// a scenario can assert that the boundary was never reached.
package harness
