package harness

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/qnorm/internal/ir"
)

// RunWithGolden executes a scenario and compares its canonical IR against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error if the scenario cannot run or did not normalize.
// A mismatch with the golden file fails t through goldie.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if result.Circuit == nil {
		return result, fmt.Errorf("scenario %s did not normalize: %v", scenario.Name, result.Err)
	}
	if err := AssertGolden(t, scenario.Name, result.Circuit); err != nil {
		return result, err
	}
	return result, nil
}

// AssertGolden compares a circuit's canonical JSON against a golden file.
// The canonical form includes the qubit count and sorts object keys, so
// the golden text is independent of construction order.
func AssertGolden(t *testing.T, name string, c *ir.Circuit) error {
	t.Helper()

	data, err := ir.CanonicalCircuit(c)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
