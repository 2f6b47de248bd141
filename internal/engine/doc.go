// Package engine runs normalized circuits against the execution boundary.
//
// A run is a straight pipeline:
//
//  1. compiler.Compile turns the detected source circuit into IR
//  2. the IR is hashed and serialized
//  3. the configured backend.Simulator samples it
//  4. the histogram is optionally reversed to little-endian order
//  5. the run is appended to the store, when one is configured
//
// Any failure in step 1 returns before the boundary is reached, so a circuit
// that cannot be normalized never produces a partial request. Empty circuits
// stop after step 2 with an empty histogram.
//
// Recorded runs are ordered by a logical Clock rather than wall time. When
// reopening an existing run log, seed the clock with store.MaxSeq.
package engine
