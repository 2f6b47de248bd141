// Package diagram renders canonical IR as a text wire diagram.
//
// Each qubit is a horizontal wire and each step one or more columns. Gates
// in a step whose qubit spans overlap are spread over extra columns so that
// vertical connectors never cross a gate.
package diagram

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/qnorm/internal/ir"
)

// Options controls rendering.
type Options struct {
	// Title is shown above the wires. Empty means no title line.
	Title string
	// Plain disables colors and the surrounding panel.
	Plain bool
}

type cellKind int

const (
	cellWire cellKind = iota
	cellBox
	cellMeasure
	cellControl
	cellTarget
	cellSwap
	cellCross
)

type cell struct {
	kind  cellKind
	label string
}

// column is one rendered slice of a step.
type column struct {
	step  int
	first bool
	cells map[int]cell
	spans [][2]int
}

func (c *column) overlaps(lo, hi int) bool {
	for _, s := range c.spans {
		if lo <= s[1] && s[0] <= hi {
			return true
		}
	}
	return false
}

// Render draws the circuit.
func Render(c *ir.Circuit, opts Options) string {
	p := painter{plain: opts.Plain}

	var sb strings.Builder
	if opts.Title != "" {
		sb.WriteString(p.paint(titleStyle, opts.Title))
		sb.WriteString("\n\n")
	}

	if c == nil || c.Empty() {
		sb.WriteString(p.paint(dimStyle, "(empty circuit)"))
		return p.panel(sb.String())
	}

	cols := layout(c)
	labelW := len(qubitLabel(c.QubitCount-1)) + 1

	header := strings.Repeat(" ", labelW+2)
	for _, col := range cols {
		if col.first {
			header += p.paint(dimStyle, padCenter(fmt.Sprintf("%d", col.step), cellW))
		} else {
			header += strings.Repeat(" ", cellW)
		}
	}
	sb.WriteString(strings.TrimRight(header, " "))
	sb.WriteString("\n")

	for q := 0; q < c.QubitCount; q++ {
		line := p.paint(qubitLabelStyle, fmt.Sprintf("%-*s", labelW, qubitLabel(q))) + "──"
		for _, col := range cols {
			line += p.renderCell(col.cells[q])
		}
		sb.WriteString(line)
		sb.WriteString("\n")

		if q == c.QubitCount-1 {
			break
		}
		spacer := strings.Repeat(" ", labelW+2)
		for _, col := range cols {
			if col.spansGap(q) {
				spacer += padCenter("│", cellW)
			} else {
				spacer += strings.Repeat(" ", cellW)
			}
		}
		sb.WriteString(strings.TrimRight(spacer, " "))
		sb.WriteString("\n")
	}

	return p.panel(strings.TrimRight(sb.String(), "\n"))
}

// spansGap reports whether a multi-qubit gate connects qubit q to q+1.
func (c *column) spansGap(q int) bool {
	for _, s := range c.spans {
		if s[0] <= q && q+1 <= s[1] {
			return true
		}
	}
	return false
}

// layout packs each step's gates into columns, first fit.
func layout(c *ir.Circuit) []*column {
	var cols []*column
	for _, step := range c.Steps {
		var stepCols []*column
		for _, g := range step.Gates {
			qubits := g.Qubits()
			lo, hi := qubits[0], qubits[0]
			for _, q := range qubits[1:] {
				lo, hi = min(lo, q), max(hi, q)
			}

			var col *column
			for _, candidate := range stepCols {
				if !candidate.overlaps(lo, hi) {
					col = candidate
					break
				}
			}
			if col == nil {
				col = &column{step: step.Index, first: len(stepCols) == 0, cells: map[int]cell{}}
				stepCols = append(stepCols, col)
			}
			col.place(g, lo, hi)
		}
		cols = append(cols, stepCols...)
	}
	return cols
}

// place writes g's cells into the column.
func (c *column) place(g ir.Gate, lo, hi int) {
	c.spans = append(c.spans, [2]int{lo, hi})
	for q := lo + 1; q < hi; q++ {
		c.cells[q] = cell{kind: cellCross}
	}

	base := g.Name.Base()
	if g.Control != nil {
		c.cells[*g.Control] = cell{kind: cellControl}
	}
	switch {
	case base == ir.Swap:
		c.cells[g.Target] = cell{kind: cellSwap}
		c.cells[*g.Target2] = cell{kind: cellSwap}
	case base == ir.MeasureZ:
		c.cells[g.Target] = cell{kind: cellMeasure, label: "M"}
	case base == ir.PauliX && g.Control != nil:
		c.cells[g.Target] = cell{kind: cellTarget}
	default:
		c.cells[g.Target] = cell{kind: cellBox, label: displayName(base)}
	}
}

var displayNames = map[ir.GateName]string{
	ir.Identity: "I",
	ir.PauliX:   "X",
	ir.PauliY:   "Y",
	ir.PauliZ:   "Z",
	ir.Hadamard: "H",
	ir.S:        "S",
	ir.SDagger:  "S†",
	ir.T:        "T",
	ir.TDagger:  "T†",
	ir.SqrtNot:  "√X",
	ir.RXPhi:    "RX",
	ir.RYPhi:    "RY",
	ir.RZPhi:    "RZ",
	ir.RPhi:     "P",
	ir.U2:       "U2",
	ir.U3:       "U3",
}

// displayName returns the short box label for a base gate name.
func displayName(name ir.GateName) string {
	if label, ok := displayNames[name]; ok {
		return label
	}
	return strings.ToUpper(string(name))
}

func qubitLabel(q int) string {
	return fmt.Sprintf("q[%d]", q)
}

// padCenter centres a string within the given width, measured in cells.
func padCenter(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return string([]rune(s)[:width])
	}
	total := width - w
	left := total / 2
	right := total - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// painter applies styles unless rendering plain text.
type painter struct {
	plain bool
}

func (p painter) paint(st lipgloss.Style, s string) string {
	if p.plain {
		return s
	}
	return st.Render(s)
}

func (p painter) panel(s string) string {
	if p.plain {
		return s
	}
	return panelStyle.Render(s)
}

func (p painter) renderCell(c cell) string {
	dashL := (cellW - 1) / 2
	dashR := cellW - dashL - 1
	symbol := func(sym string) string {
		return strings.Repeat("─", dashL) + p.paint(gateStyle, sym) + strings.Repeat("─", dashR)
	}
	box := func(st lipgloss.Style, label string) string {
		margin := (cellW - gateBoxW) / 2
		right := cellW - gateBoxW - margin
		return strings.Repeat("─", margin) + p.paint(st, "┤"+padCenter(label, gateNameW)+"├") + strings.Repeat("─", right)
	}

	switch c.kind {
	case cellBox:
		return box(gateStyle, c.label)
	case cellMeasure:
		return box(measureStyle, c.label)
	case cellControl:
		return symbol("●")
	case cellTarget:
		return symbol("⊕")
	case cellSwap:
		return symbol("×")
	case cellCross:
		return strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR)
	}
	return strings.Repeat("─", cellW)
}
