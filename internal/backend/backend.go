package backend

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/roach88/qnorm/internal/config"
)

// Boundary limits.
const (
	MaxShots  = 1_000_000
	MaxQubits = 20
)

// Simulator executes a serialized circuit.
type Simulator interface {
	Simulate(ctx context.Context, serializedIR string, shots, qubitCount int) (Histogram, error)
}

// SimulatorFunc adapts a function to the Simulator interface.
type SimulatorFunc func(ctx context.Context, serializedIR string, shots, qubitCount int) (Histogram, error)

// Simulate calls f.
func (f SimulatorFunc) Simulate(ctx context.Context, serializedIR string, shots, qubitCount int) (Histogram, error) {
	return f(ctx, serializedIR, shots, qubitCount)
}

// Histogram maps measured basis states, written as bit strings, to counts.
type Histogram map[string]int

// SortedKeys returns the basis states in lexical order.
func (h Histogram) SortedKeys() []string {
	return slices.Sorted(maps.Keys(h))
}

// Total returns the sum of all counts.
func (h Histogram) Total() int {
	n := 0
	for _, c := range h {
		n += c
	}
	return n
}

// Reversed returns a copy with every bit string reversed, converting
// between big-endian and little-endian qubit order.
func (h Histogram) Reversed() Histogram {
	out := make(Histogram, len(h))
	for k, v := range h {
		b := []byte(k)
		slices.Reverse(b)
		out[string(b)] += v
	}
	return out
}

// BoundaryError reports a failed boundary call.
type BoundaryError struct {
	Backend string
	Message string
	Err     error
}

func (e *BoundaryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s backend: %s: %v", e.Backend, e.Message, e.Err)
	}
	return fmt.Sprintf("%s backend: %s", e.Backend, e.Message)
}

func (e *BoundaryError) Unwrap() error { return e.Err }

// IsBoundaryError returns true if err is a BoundaryError.
func IsBoundaryError(err error) bool {
	var e *BoundaryError
	return errors.As(err, &e)
}

// CheckLimits enforces the boundary limits on shots and qubit count.
func CheckLimits(shots, qubitCount int) error {
	if shots < 1 || shots > MaxShots {
		return fmt.Errorf("shots must be in [1, %d], got %d", MaxShots, shots)
	}
	if qubitCount < 1 || qubitCount > MaxQubits {
		return fmt.Errorf("qubit count must be in [1, %d], got %d", MaxQubits, qubitCount)
	}
	return nil
}

// New builds the simulator described by the configuration.
func New(c config.BackendConfig) (Simulator, error) {
	switch c.Kind {
	case config.BackendCommand:
		if len(c.Command) == 0 {
			return nil, errors.New("command backend needs a command")
		}
		return &Command{Path: c.Command[0], Args: slices.Clone(c.Command[1:]), Timeout: c.Timeout}, nil
	case config.BackendRemote:
		if c.URL == "" {
			return nil, errors.New("remote backend needs a url")
		}
		return &Remote{URL: c.URL, Timeout: c.Timeout}, nil
	}
	return nil, fmt.Errorf("unknown backend kind %q", c.Kind)
}

// withTimeout derives a context bounded by d when d is positive.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}

// result is the wire shape both backends decode.
type result struct {
	Counts Histogram `json:"counts"`
	Error  string    `json:"error,omitempty"`
}
