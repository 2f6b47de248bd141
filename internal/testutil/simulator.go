// Package testutil provides test doubles shared by the engine, harness and
// CLI tests.
package testutil

import (
	"context"
	"sync"

	"github.com/roach88/qnorm/internal/backend"
)

// Call is one recorded Simulate invocation.
type Call struct {
	IR         string
	Shots      int
	QubitCount int
}

// RecordingSimulator is a backend.Simulator that records every call and
// answers with a fixed histogram or error.
//
// Safe for concurrent use.
type RecordingSimulator struct {
	mu     sync.Mutex
	calls  []Call
	counts backend.Histogram
	err    error
}

// NewRecordingSimulator returns a simulator that answers every call with
// counts.
func NewRecordingSimulator(counts backend.Histogram) *RecordingSimulator {
	return &RecordingSimulator{counts: counts}
}

// NewFailingSimulator returns a simulator that answers every call with err.
func NewFailingSimulator(err error) *RecordingSimulator {
	return &RecordingSimulator{err: err}
}

// Simulate implements backend.Simulator.
func (s *RecordingSimulator) Simulate(ctx context.Context, serializedIR string, shots, qubitCount int) (backend.Histogram, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, Call{IR: serializedIR, Shots: shots, QubitCount: qubitCount})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	out := make(backend.Histogram, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out, nil
}

// Calls returns a copy of the recorded calls in order.
func (s *RecordingSimulator) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallCount returns how many times Simulate was called.
func (s *RecordingSimulator) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// LastCall returns the most recent call. ok is false if there were none.
func (s *RecordingSimulator) LastCall() (call Call, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		return Call{}, false
	}
	return s.calls[len(s.calls)-1], true
}
