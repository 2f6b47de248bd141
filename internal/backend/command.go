package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Command runs a local simulator binary once per call. The circuit is
// written to a temporary file passed as --circuit; shots and qubit count
// follow as --shots and --qubits. The binary prints
// {"counts": {...}} or {"error": "..."} on stdout.
type Command struct {
	Path    string
	Args    []string
	Timeout time.Duration
}

// Simulate implements Simulator.
func (c *Command) Simulate(ctx context.Context, serializedIR string, shots, qubitCount int) (Histogram, error) {
	if err := CheckLimits(shots, qubitCount); err != nil {
		return nil, &BoundaryError{Backend: "command", Message: "rejected request", Err: err}
	}

	f, err := os.CreateTemp("", "qnorm-circuit-*.json")
	if err != nil {
		return nil, fmt.Errorf("creating circuit file: %w", err)
	}
	defer os.Remove(f.Name())
	if _, err := f.WriteString(serializedIR); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing circuit file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("writing circuit file: %w", err)
	}

	ctx, cancel := withTimeout(ctx, c.Timeout)
	defer cancel()

	args := append(append([]string(nil), c.Args...),
		"--circuit", f.Name(),
		"--shots", strconv.Itoa(shots),
		"--qubits", strconv.Itoa(qubitCount),
	)
	cmd := exec.CommandContext(ctx, c.Path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	slog.Debug("starting simulator", "path", c.Path, "shots", shots, "qubits", qubitCount)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, &BoundaryError{Backend: "command", Message: "simulator did not finish", Err: ctx.Err()}
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "simulator failed"
		}
		return nil, &BoundaryError{Backend: "command", Message: msg, Err: err}
	}

	var res result
	if err := json.Unmarshal(stdout.Bytes(), &res); err != nil {
		return nil, &BoundaryError{Backend: "command", Message: "decoding simulator output", Err: err}
	}
	if res.Error != "" {
		return nil, &BoundaryError{Backend: "command", Message: res.Error}
	}
	if res.Counts == nil {
		res.Counts = Histogram{}
	}
	return res.Counts, nil
}
