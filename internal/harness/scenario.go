package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance scenario: one circuit, the IR or error it
// must normalize to, and optionally what a run of it must return.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Circuit is a path to a circuit file, relative to the scenario file.
	Circuit string `yaml:"circuit,omitempty"`

	// Source is an inline circuit document, read according to Format.
	Source string `yaml:"source,omitempty"`

	// Format selects the reader for Source. Defaults to yaml.
	Format string `yaml:"format,omitempty"`

	// Expect describes the normalization outcome.
	Expect ExpectClause `yaml:"expect"`

	// Execute, when set, runs the circuit through the engine.
	Execute *ExecuteClause `yaml:"execute,omitempty"`

	// Assertions are additional checks on the normalized IR.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// ExpectClause specifies the expected normalization outcome.
type ExpectClause struct {
	// Error is the expected error code (e.g. "E201"). Empty expects success.
	Error string `yaml:"error,omitempty"`

	// Dialect is the expected detected dialect name.
	Dialect string `yaml:"dialect,omitempty"`

	// QubitCount is the expected qubit count. Nil skips the check.
	QubitCount *int `yaml:"qubit_count,omitempty"`

	// Steps is the expected step list, either as YAML structure or as a
	// JSON string. Nil skips the check; an empty list expects no steps.
	Steps any `yaml:"steps,omitempty"`
}

// ExecuteClause configures a run through the engine.
type ExecuteClause struct {
	// Shots is passed to the engine. Zero uses the engine default.
	Shots int `yaml:"shots,omitempty"`

	// LittleEndian requests little-endian histogram keys.
	LittleEndian bool `yaml:"little_endian,omitempty"`

	// Counts is what the recording simulator answers.
	Counts map[string]int `yaml:"counts,omitempty"`

	// Histogram is the expected run result. Nil skips the check.
	Histogram map[string]int `yaml:"histogram,omitempty"`

	// Calls is the expected number of simulator calls. Nil skips the check.
	Calls *int `yaml:"calls,omitempty"`
}

// Assertion is an additional check on the normalized IR.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Count is used by step_count and gate_count.
	Count int `yaml:"count,omitempty"`

	// Gate is the subset to match (contains_gate).
	Gate *GateMatch `yaml:"gate,omitempty"`

	// Name is the gate name that must be absent (no_gate).
	Name string `yaml:"name,omitempty"`

	// Gates is the expected name order (gate_order).
	Gates []string `yaml:"gates,omitempty"`
}

// GateMatch selects gates by any subset of their fields.
type GateMatch struct {
	Name    string   `yaml:"name,omitempty"`
	Target  *int     `yaml:"target,omitempty"`
	Control *int     `yaml:"control,omitempty"`
	Target2 *int     `yaml:"target2,omitempty"`
	Phi     *float64 `yaml:"phi,omitempty"`
	Theta   *float64 `yaml:"theta,omitempty"`
	Lambda  *float64 `yaml:"lambda,omitempty"`
}

// Assertion type constants.
const (
	AssertStepCount    = "step_count"
	AssertGateCount    = "gate_count"
	AssertContainsGate = "contains_gate"
	AssertNoGate       = "no_gate"
	AssertGateOrder    = "gate_order"
)

// formatExtensions maps Format values to the extension source.Load
// dispatches on.
var formatExtensions = map[string]string{
	"":     ".yaml",
	"yaml": ".yaml",
	"json": ".json",
	"quil": ".quil",
	"qasm": ".qasm",
	"cue":  ".cue",
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains unknown
// fields, or is missing required fields. A relative circuit path is resolved
// against the scenario file's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Circuit != "" && !filepath.IsAbs(scenario.Circuit) {
		scenario.Circuit = filepath.Join(filepath.Dir(path), scenario.Circuit)
	}
	if scenario.Circuit != "" {
		if _, err := os.Stat(scenario.Circuit); os.IsNotExist(err) {
			return nil, fmt.Errorf("invalid scenario: circuit file not found: %s", scenario.Circuit)
		}
	}

	return scenario, nil
}

// ParseScenario parses scenario YAML without touching the filesystem.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	switch {
	case s.Circuit == "" && s.Source == "":
		return fmt.Errorf("one of circuit or source is required")
	case s.Circuit != "" && s.Source != "":
		return fmt.Errorf("circuit and source are mutually exclusive")
	}

	if _, ok := formatExtensions[s.Format]; !ok {
		return fmt.Errorf("unknown format %q", s.Format)
	}
	if s.Format != "" && s.Source == "" {
		return fmt.Errorf("format applies only to inline source")
	}

	if s.Expect.Error != "" && (s.Expect.Steps != nil || s.Expect.QubitCount != nil) {
		return fmt.Errorf("expect.error cannot be combined with steps or qubit_count")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertStepCount, AssertGateCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertContainsGate:
		if a.Gate == nil {
			return fmt.Errorf("assertions[%d]: gate is required for contains_gate", index)
		}
	case AssertNoGate:
		if a.Name == "" {
			return fmt.Errorf("assertions[%d]: name is required for no_gate", index)
		}
	case AssertGateOrder:
		if len(a.Gates) == 0 {
			return fmt.Errorf("assertions[%d]: gates list is required for gate_order", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
