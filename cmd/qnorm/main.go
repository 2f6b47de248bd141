// Command qnorm normalizes quantum circuits from several source dialects
// into one canonical IR and runs them on a simulator backend.
//
// Usage:
//
//	qnorm compile <circuit> [-o file]
//	qnorm run <circuit> [--shots N] [--little-endian] [--db path]
//	qnorm validate <ir.json>
//	qnorm draw <circuit>
//	qnorm test <scenarios-dir>
//	qnorm history --db path
package main

import (
	"fmt"
	"os"

	"github.com/roach88/qnorm/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		if !cli.Reported(err) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
