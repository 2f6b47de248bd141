package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// LoadFile reads a circuit file and decodes it according to its extension.
func LoadFile(path string) (Circuit, error) {
	return LoadFileAs(path, DialectNone)
}

// LoadFileAs reads a circuit file that must be in the given dialect.
func LoadFileAs(path string, want Dialect) (Circuit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Circuit{}, fmt.Errorf("reading circuit: %w", err)
	}
	return LoadAs(path, data, want)
}

// Load decodes circuit content. The name's extension selects the reader:
//   - .quil: Quil program text (stream dialect)
//   - .qasm: OpenQASM 2 text (list dialect)
//   - .cue: CUE document, evaluated then detected like YAML
//   - anything else: YAML or JSON document, dialect detected from its keys
func Load(name string, data []byte) (Circuit, error) {
	return LoadAs(name, data, DialectNone)
}

// LoadAs is Load with the dialect fixed by the caller. Documents are decoded
// with that dialect's reader regardless of which other keys they carry; text
// programs must already be in it. DialectNone detects as Load does.
func LoadAs(name string, data []byte, want Dialect) (Circuit, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if fixed, ok := textDialects[ext]; ok && want != DialectNone && want != fixed {
		return Circuit{}, &SourceDetectionError{Want: want}
	}

	switch ext {
	case ".quil":
		p, err := ParseQuil(name, string(data))
		if err != nil {
			return Circuit{}, err
		}
		return Circuit{Dialect: DialectStream, Stream: p}, nil
	case ".qasm":
		c, err := ParseQASM(name, string(data))
		if err != nil {
			return Circuit{}, err
		}
		return Circuit{Dialect: DialectList, List: c}, nil
	case ".cue":
		js, err := evalCUE(name, data)
		if err != nil {
			return Circuit{}, err
		}
		return DetectAs(name, js, want)
	}
	return DetectAs(name, data, want)
}

var textDialects = map[string]Dialect{
	".quil": DialectStream,
	".qasm": DialectList,
}

// evalCUE evaluates a CUE document and exports it as concrete JSON.
func evalCUE(name string, data []byte) ([]byte, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(name))
	if err := v.Err(); err != nil {
		return nil, &ParseError{File: name, Message: "building CUE value", Err: err}
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, &ParseError{File: name, Message: "CUE value is not concrete", Err: err}
	}
	js, err := v.MarshalJSON()
	if err != nil {
		return nil, &ParseError{File: name, Message: "exporting CUE value", Err: err}
	}
	return js, nil
}
