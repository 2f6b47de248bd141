package source

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// quilProgram is the parse tree of a Quil program.
type quilProgram struct {
	Lines []*quilLine `( @@ | EOL )*`
}

// quilLine captures one instruction: leading words are modifiers followed by
// the gate name (or a directive such as PRAGMA), then optional parameters
// and the arguments.
type quilLine struct {
	Pos    lexer.Position
	Words  []string    `@Ident+`
	Params []*quilExpr `( "(" @@ ( "," @@ )* ")" )?`
	Args   []*quilArg  `@@*`
}

type quilExpr struct {
	Tokens []string `@( Ident | Float | Int | "*" | "/" | "-" | "+" )+`
}

type quilArg struct {
	Qubit  *int     `  @Int`
	Memory *quilRef `| @@`
	Index  *int     `| "[" @Int "]"`
	Text   *string  `| @String`
}

type quilRef struct {
	Name  string `@Ident`
	Index *int   `( "[" @Int "]" )?`
}

var quilLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "String", Pattern: `"[^"]*"`},
	{Name: "Float", Pattern: `\d+\.\d*(?:[eE][-+]?\d+)?|\d+[eE][-+]?\d+|\.\d+(?:[eE][-+]?\d+)?`},
	{Name: "Int", Pattern: `\d+`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `[()\[\],*/+\-]`},
	{Name: "EOL", Pattern: `[\n;]+`},
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
})

var quilParser = participle.MustBuild[quilProgram](
	participle.Lexer(quilLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.Unquote("String"),
)

// quilModifiers are the words that may precede a gate name.
var quilModifiers = map[string]bool{
	"DAGGER":     true,
	"CONTROLLED": true,
	"FORKED":     true,
}

// ParseQuil reads Quil program text into a stream-dialect Program.
//
// Supported lines:
//   - "H 0", "CNOT 0 1", "RX(pi/2) 3"
//   - "DAGGER CONTROLLED RZ(0.3) 0 1" (modifiers precede the gate name)
//   - "MEASURE 0 ro[0]" (classical target ignored)
//   - "PRAGMA ...", "DECLARE ro BIT[2]", "HALT" (kept; skipped later as no-ops)
func ParseQuil(filename, text string) (*Program, error) {
	tree, err := quilParser.ParseString(filename, text)
	if err != nil {
		return nil, &ParseError{File: filename, Message: "invalid Quil", Err: err}
	}

	p := &Program{Instructions: make([]Instruction, 0, len(tree.Lines))}
	for _, line := range tree.Lines {
		inst, err := line.instruction(filename)
		if err != nil {
			return nil, err
		}
		p.Instructions = append(p.Instructions, inst)
	}
	return p, nil
}

func (l *quilLine) instruction(filename string) (Instruction, error) {
	words := make([]string, len(l.Words))
	for i, w := range l.Words {
		words[i] = foldUpper(w)
	}

	// Directives take free-form arguments; keep the keyword only.
	if _, ok := quilNoOps[words[0]]; ok {
		return Instruction{Gate: NativeGate{Name: words[0]}, Line: l.Pos.Line}, nil
	}

	var written []string
	i := 0
	for i < len(words)-1 && quilModifiers[words[i]] {
		written = append(written, words[i])
		i++
	}
	if i != len(words)-1 {
		return Instruction{}, &ParseError{
			File:    filename,
			Line:    l.Pos.Line,
			Message: fmt.Sprintf("unexpected words %v", l.Words[i:len(l.Words)-1]),
		}
	}

	params := make([]float64, 0, len(l.Params))
	for _, expr := range l.Params {
		v, err := ParseAngle(strings.Join(expr.Tokens, ""))
		if err != nil {
			return Instruction{}, &ParseError{File: filename, Line: l.Pos.Line, Message: "invalid parameter", Err: err}
		}
		params = append(params, v)
	}

	var qubits []int
	for _, arg := range l.Args {
		switch {
		case arg.Qubit != nil:
			qubits = append(qubits, *arg.Qubit)
		case arg.Memory != nil && words[i] == "MEASURE":
			// classical destination of a measurement
		default:
			return Instruction{}, &ParseError{File: filename, Line: l.Pos.Line, Message: "gate arguments must be qubit indices"}
		}
	}

	if len(params) == 0 {
		params = nil
	}
	return Instruction{
		Gate:      NativeGate{Name: words[i], Params: params},
		Qubits:    qubits,
		Modifiers: innermostFirst(written),
		Line:      l.Pos.Line,
	}, nil
}

// quilNoOps are directives that reference no qubits and produce no gate.
var quilNoOps = map[string]struct{}{
	"PRAGMA":  {},
	"DECLARE": {},
	"HALT":    {},
	"NOP":     {},
	"WAIT":    {},
}

// IsStreamNoOp reports whether a stream-dialect name is a directive that
// produces no gate.
func IsStreamNoOp(name string) bool {
	_, ok := quilNoOps[name]
	return ok
}
