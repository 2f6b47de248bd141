package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/qnorm/internal/backend"
	"github.com/roach88/qnorm/internal/compiler"
	"github.com/roach88/qnorm/internal/ir"
	"github.com/roach88/qnorm/internal/source"
	"github.com/roach88/qnorm/internal/store"
)

// RunIDGenerator generates run identifiers.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
type RunIDGenerator interface {
	Generate() string
}

// DefaultShots is used when RunOptions.Shots is zero.
const DefaultShots = 1024

// Engine normalizes circuits and hands them to the execution boundary.
//
// Engine holds only collaborators that are safe for concurrent use, so a
// single Engine may serve many goroutines. Each Run builds its own resolver
// state and discards it on return.
type Engine struct {
	sim   backend.Simulator
	store *store.Store
	clock *Clock
	ids   RunIDGenerator
}

// EngineOption allows configuration of engine collaborators.
type EngineOption func(*Engine)

// WithStore records every successful simulator call in the run log.
func WithStore(s *store.Store) EngineOption {
	return func(e *Engine) {
		e.store = s
	}
}

// WithClock replaces the logical clock used to stamp recorded runs.
// Use NewClockAt(store.MaxSeq) to resume an existing run log.
func WithClock(c *Clock) EngineOption {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithRunIDs replaces the run ID generator.
func WithRunIDs(g RunIDGenerator) EngineOption {
	return func(e *Engine) {
		e.ids = g
	}
}

// New creates an Engine that simulates through sim.
func New(sim backend.Simulator, opts ...EngineOption) *Engine {
	e := &Engine{
		sim:   sim,
		clock: NewClock(),
		ids:   UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RunOptions controls a single run.
type RunOptions struct {
	// Shots is the number of samples; zero means DefaultShots.
	Shots int

	// LittleEndian reverses every histogram key so qubit 0 is the
	// rightmost bit.
	LittleEndian bool
}

// Result is the outcome of a run.
type Result struct {
	// RunID identifies the recorded run. Empty when nothing was simulated.
	RunID string

	Dialect   source.Dialect
	Circuit   *ir.Circuit
	Hash      string
	Histogram backend.Histogram
}

// Run normalizes src and executes it.
//
// Normalization errors return before the boundary is called. An empty
// circuit returns an empty histogram without calling the boundary.
func (e *Engine) Run(ctx context.Context, src source.Circuit, opts RunOptions) (*Result, error) {
	circuit, err := compiler.Compile(src)
	if err != nil {
		return nil, err
	}
	return e.Execute(ctx, circuit, src.Dialect, opts)
}

// RunFile loads, normalizes and executes the circuit document at path.
func (e *Engine) RunFile(ctx context.Context, path string, opts RunOptions) (*Result, error) {
	src, err := source.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	res, err := e.Run(ctx, src, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

// Execute sends an already normalized circuit to the boundary.
func (e *Engine) Execute(ctx context.Context, circuit *ir.Circuit, dialect source.Dialect, opts RunOptions) (*Result, error) {
	if opts.Shots == 0 {
		opts.Shots = DefaultShots
	}

	hash, err := ir.Hash(circuit)
	if err != nil {
		return nil, fmt.Errorf("hash circuit: %w", err)
	}

	res := &Result{
		Dialect:   dialect,
		Circuit:   circuit,
		Hash:      hash,
		Histogram: backend.Histogram{},
	}
	if circuit.Empty() {
		slog.Debug("empty circuit, skipping simulation", "dialect", dialect.String())
		return res, nil
	}

	data, err := circuit.Marshal()
	if err != nil {
		return nil, fmt.Errorf("serialize circuit: %w", err)
	}

	slog.Info("simulating circuit",
		"dialect", dialect.String(),
		"steps", len(circuit.Steps),
		"qubits", circuit.QubitCount,
		"shots", opts.Shots,
		"hash", hash[:12],
	)

	counts, err := e.sim.Simulate(ctx, string(data), opts.Shots, circuit.QubitCount)
	if err != nil {
		slog.Error("simulation failed", "dialect", dialect.String(), "error", err)
		return nil, newSimulationError(dialect.String(), err)
	}
	if counts == nil {
		counts = backend.Histogram{}
	}
	if opts.LittleEndian {
		counts = counts.Reversed()
	}
	res.Histogram = counts
	res.RunID = e.ids.Generate()

	if e.store != nil {
		run := store.Run{
			ID:                res.RunID,
			Seq:               e.clock.Next(),
			Dialect:           dialect.String(),
			IRHash:            hash,
			QubitCount:        circuit.QubitCount,
			Shots:             opts.Shots,
			LittleEndian:      opts.LittleEndian,
			IR:                string(data),
			Histogram:         counts,
			NormalizerVersion: ir.NormalizerVersion,
			IRVersion:         ir.IRVersion,
		}
		if err := e.store.WriteRun(ctx, run); err != nil {
			return nil, newRecordError(dialect.String(), err)
		}
		slog.Debug("recorded run", "id", run.ID, "seq", run.Seq)
	}

	return res, nil
}
