package harness

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"

	"github.com/roach88/qnorm/internal/backend"
	"github.com/roach88/qnorm/internal/compiler"
	"github.com/roach88/qnorm/internal/engine"
	"github.com/roach88/qnorm/internal/ir"
	"github.com/roach88/qnorm/internal/source"
	"github.com/roach88/qnorm/internal/store"
	"github.com/roach88/qnorm/internal/testutil"
)

// paramTolerance bounds the difference between expected and actual gate
// parameters. Parameters derived from exponents carry float rounding.
const paramTolerance = 1e-9

// Run executes a scenario and returns the result.
//
// A circuit that fails to normalize is not an error here: the failure is
// compared against expect.error. Run only returns an error when the scenario
// itself cannot be executed, for example when its circuit file is missing.
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()
	result := NewResult()

	src, err := loadSource(scenario)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load circuit: %w", err)
	}
	if err == nil {
		result.Dialect = src.Dialect.String()
		if scenario.Execute != nil {
			err = execute(ctx, scenario.Execute, src, result)
		} else {
			result.Circuit, err = compiler.Compile(src)
		}
	}

	if err != nil {
		var runtimeErr *engine.RuntimeError
		if errors.As(err, &runtimeErr) {
			return nil, fmt.Errorf("failed to execute: %w", err)
		}
		result.Err = err
		result.ErrorCode = compiler.ErrorCode(err)
	}

	checkExpect(scenario.Expect, result)
	if scenario.Execute != nil {
		checkExecute(scenario.Execute, result)
	}
	if result.Circuit != nil {
		for _, errMsg := range EvaluateAssertions(result.Circuit, scenario.Assertions) {
			result.AddError(errMsg)
		}
	}

	return result, nil
}

// loadSource reads the scenario's circuit from its file or inline source.
func loadSource(s *Scenario) (source.Circuit, error) {
	if s.Circuit != "" {
		return source.LoadFile(s.Circuit)
	}
	return source.Load(s.Name+formatExtensions[s.Format], []byte(s.Source))
}

// execute runs src through a fresh engine backed by a recording simulator
// and an in-memory run log.
func execute(ctx context.Context, ex *ExecuteClause, src source.Circuit, result *Result) error {
	st, err := store.Open(":memory:")
	if err != nil {
		return fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	sim := testutil.NewRecordingSimulator(backend.Histogram(ex.Counts))
	eng := engine.New(sim,
		engine.WithStore(st),
		engine.WithRunIDs(engine.NewFixedGenerator("scenario-run")),
	)

	res, runErr := eng.Run(ctx, src, engine.RunOptions{
		Shots:        ex.Shots,
		LittleEndian: ex.LittleEndian,
	})
	result.Calls = sim.CallCount()

	runs, err := st.ListRuns(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	result.Recorded = len(runs)

	if runErr != nil {
		return runErr
	}
	result.Circuit = res.Circuit
	result.Histogram = res.Histogram
	return nil
}

// checkExpect compares the normalization outcome with the expect clause.
func checkExpect(expect ExpectClause, result *Result) {
	if expect.Error != "" {
		switch {
		case result.Err == nil:
			result.AddError(fmt.Sprintf("expected error %s, normalization succeeded", expect.Error))
		case result.ErrorCode != expect.Error:
			result.AddError(fmt.Sprintf("expected error %s, got %s: %v", expect.Error, codeOrNone(result.ErrorCode), result.Err))
		}
		return
	}

	if result.Err != nil {
		result.AddError(fmt.Sprintf("unexpected error: %v", result.Err))
		return
	}

	if expect.Dialect != "" && expect.Dialect != result.Dialect {
		result.AddError(fmt.Sprintf("expected dialect %s, got %s", expect.Dialect, result.Dialect))
	}

	if expect.QubitCount != nil && *expect.QubitCount != result.Circuit.QubitCount {
		result.AddError(fmt.Sprintf("expected qubit_count %d, got %d", *expect.QubitCount, result.Circuit.QubitCount))
	}

	if expect.Steps != nil {
		want, err := expectedSteps(expect.Steps)
		if err != nil {
			result.AddError(fmt.Sprintf("expect.steps: %v", err))
			return
		}
		for _, msg := range compareSteps(want, result.Circuit.Steps) {
			result.AddError(msg)
		}
	}
}

// checkExecute compares the engine outcome with the execute clause.
func checkExecute(ex *ExecuteClause, result *Result) {
	if ex.Calls != nil && *ex.Calls != result.Calls {
		result.AddError(fmt.Sprintf("expected %d simulator calls, got %d", *ex.Calls, result.Calls))
	}
	if ex.Histogram == nil || result.Err != nil {
		return
	}
	if len(ex.Histogram) != len(result.Histogram) {
		result.AddError(fmt.Sprintf("expected histogram %v, got %v", ex.Histogram, result.Histogram))
		return
	}
	for k, v := range ex.Histogram {
		if got, ok := result.Histogram[k]; !ok || got != v {
			result.AddError(fmt.Sprintf("expected histogram %v, got %v", ex.Histogram, result.Histogram))
			return
		}
	}
}

// expectedSteps decodes expect.steps. YAML structure is re-encoded as JSON
// so both spellings go through ir.Parse and its unknown-field check.
func expectedSteps(raw any) ([]ir.Step, error) {
	var stepsJSON []byte
	if text, ok := raw.(string); ok {
		stepsJSON = []byte(text)
	} else {
		var err error
		stepsJSON, err = json.Marshal(raw)
		if err != nil {
			return nil, err
		}
	}

	doc := append([]byte(`{"steps":`), stepsJSON...)
	doc = append(doc, '}')
	c, err := ir.Parse(doc)
	if err != nil {
		return nil, err
	}
	return c.Steps, nil
}

// compareSteps returns one message per difference between want and got.
func compareSteps(want, got []ir.Step) []string {
	if len(want) != len(got) {
		return []string{fmt.Sprintf("expected %d steps, got %d", len(want), len(got))}
	}

	var msgs []string
	for i := range want {
		w, g := want[i], got[i]
		if w.Index != g.Index {
			msgs = append(msgs, fmt.Sprintf("steps[%d]: expected index %d, got %d", i, w.Index, g.Index))
		}
		if len(w.Gates) != len(g.Gates) {
			msgs = append(msgs, fmt.Sprintf("steps[%d]: expected %d gates, got %d", i, len(w.Gates), len(g.Gates)))
			continue
		}
		for j := range w.Gates {
			if !gatesMatch(w.Gates[j], g.Gates[j]) {
				msgs = append(msgs, fmt.Sprintf("steps[%d].gates[%d]: expected %s, got %s", i, j, w.Gates[j], g.Gates[j]))
			}
		}
	}
	return msgs
}

// gatesMatch compares gates exactly except for parameters, which are
// compared within paramTolerance.
func gatesMatch(a, b ir.Gate) bool {
	return a.Name == b.Name &&
		a.Target == b.Target &&
		intPtrEqual(a.Control, b.Control) &&
		intPtrEqual(a.Target2, b.Target2) &&
		floatPtrClose(a.Phi, b.Phi) &&
		floatPtrClose(a.Theta, b.Theta) &&
		floatPtrClose(a.Lambda, b.Lambda)
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func floatPtrClose(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return math.Abs(*a-*b) <= paramTolerance
}

func codeOrNone(code string) string {
	if code == "" {
		return "an uncoded error"
	}
	return code
}

// RunFile loads and runs the scenario at path.
func RunFile(path string) (*Scenario, *Result, error) {
	scenario, err := LoadScenario(path)
	if err != nil {
		return nil, nil, err
	}
	result, err := Run(scenario)
	if err != nil {
		return scenario, nil, fmt.Errorf("%s: %w", scenario.Name, err)
	}
	return scenario, result, nil
}
