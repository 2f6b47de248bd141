package source

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Pre-compiled regexps for QASM parsing.
var (
	qasmHeaderRegex  = regexp.MustCompile(`^(OPENQASM\s+[\d.]+|include\s+"[^"]*")$`)
	qasmQregRegex    = regexp.MustCompile(`^qreg\s+(\w+)\s*\[\s*(\d+)\s*\]$`)
	qasmCregRegex    = regexp.MustCompile(`^creg\s+(\w+)\s*\[\s*(\d+)\s*\]$`)
	qasmMeasureRegex = regexp.MustCompile(`^measure\s+(\w+)\s*\[\s*(\d+)\s*\]\s*->\s*\w+\s*(?:\[\s*\d+\s*\])?$`)
	qasmGateRegex    = regexp.MustCompile(`^(\w+)\s*(?:\(([^)]*)\))?\s+(.+)$`)
	qasmBareRegex    = regexp.MustCompile(`^(\w+)$`)
	qasmArgRegex     = regexp.MustCompile(`^(\w+)\s*\[\s*(\d+)\s*\]$`)
	qasmIfRegex      = regexp.MustCompile(`^if\s*\(`)
)

// ParseQASM reads OpenQASM 2 text into a list-dialect circuit.
//
// Qubit indices are flattened across quantum registers in declaration
// order, the way qiskit assigns them: after "qreg a[2]; qreg b[3];",
// b[0] is qubit 2. Classically controlled operations and whole-register
// arguments are rejected.
func ParseQASM(filename, text string) (*ListCircuit, error) {
	c := &ListCircuit{}
	type register struct{ off, size int }
	regs := make(map[string]register)
	width := 0

	for lineNo, raw := range strings.Split(text, "\n") {
		line := raw
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		for _, stmt := range strings.Split(line, ";") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" || qasmHeaderRegex.MatchString(stmt) || qasmCregRegex.MatchString(stmt) {
				continue
			}
			perr := func(format string, args ...any) error {
				return &ParseError{File: filename, Line: lineNo + 1, Message: fmt.Sprintf(format, args...)}
			}

			if m := qasmQregRegex.FindStringSubmatch(stmt); m != nil {
				size, _ := strconv.Atoi(m[2])
				if _, dup := regs[m[1]]; dup {
					return nil, perr("register %q declared twice", m[1])
				}
				regs[m[1]] = register{off: width, size: size}
				width += size
				continue
			}

			resolve := func(reg, idx string) (int, error) {
				r, ok := regs[reg]
				if !ok {
					return 0, perr("undeclared register %q", reg)
				}
				i, _ := strconv.Atoi(idx)
				if i >= r.size {
					return 0, perr("index %d out of range for register %q[%d]", i, reg, r.size)
				}
				return r.off + i, nil
			}

			if m := qasmMeasureRegex.FindStringSubmatch(stmt); m != nil {
				q, err := resolve(m[1], m[2])
				if err != nil {
					return nil, err
				}
				c.Instructions = append(c.Instructions, ListInstruction{
					Gate:   NativeGate{Name: "measure"},
					Qubits: []int{q},
					Line:   lineNo + 1,
				})
				continue
			}

			if qasmIfRegex.MatchString(stmt) {
				return nil, perr("classically controlled operations are not supported")
			}

			if m := qasmBareRegex.FindStringSubmatch(stmt); m != nil {
				// e.g. "barrier" with no arguments
				c.Instructions = append(c.Instructions, ListInstruction{
					Gate: NativeGate{Name: foldLower(m[1])},
					Line: lineNo + 1,
				})
				continue
			}

			m := qasmGateRegex.FindStringSubmatch(stmt)
			if m == nil {
				return nil, perr("cannot parse %q", stmt)
			}

			var params []float64
			if strings.TrimSpace(m[2]) != "" {
				for _, p := range strings.Split(m[2], ",") {
					v, err := ParseAngle(p)
					if err != nil {
						return nil, perr("%v", err)
					}
					params = append(params, v)
				}
			}

			var qubits []int
			for _, arg := range strings.Split(m[3], ",") {
				am := qasmArgRegex.FindStringSubmatch(strings.TrimSpace(arg))
				if am == nil {
					return nil, perr("argument %q must be an indexed qubit", strings.TrimSpace(arg))
				}
				q, err := resolve(am[1], am[2])
				if err != nil {
					return nil, err
				}
				qubits = append(qubits, q)
			}

			c.Instructions = append(c.Instructions, ListInstruction{
				Gate:   NativeGate{Name: foldLower(m[1]), Params: params},
				Qubits: qubits,
				Line:   lineNo + 1,
			})
		}
	}
	return c, nil
}
