package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"
)

// recognizer matches one dialect's document shape by its top-level keys.
type recognizer struct {
	dialect Dialect
	keys    []string
	decode  func(root *yaml.Node, file string) (Circuit, error)
}

// recognizers are tried in this order; the first whose key is present wins.
var recognizers = []recognizer{
	{dialect: DialectMoment, keys: []string{"moments"}, decode: decodeMoment},
	{dialect: DialectStream, keys: []string{"instructions"}, decode: decodeStream},
	{dialect: DialectList, keys: []string{"data", "experiments"}, decode: decodeList},
}

// Detect decodes a YAML or JSON circuit document and identifies its dialect.
//
// An empty document yields an empty Circuit with DialectNone. A stream of
// more than one document is a batch and is rejected with
// MultipleCircuitsError, as is a list document with more than one
// experiment. A document matching no known shape yields
// SourceDetectionError.
func Detect(file string, data []byte) (Circuit, error) {
	return DetectAs(file, data, DialectNone)
}

// DetectAs is Detect restricted to one dialect's recognizer. DialectNone
// tries every recognizer in order.
func DetectAs(file string, data []byte, want Dialect) (Circuit, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var docs []*yaml.Node
	for {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Circuit{}, &ParseError{File: file, Message: "invalid document", Err: err}
		}
		docs = append(docs, &node)
	}

	switch len(docs) {
	case 0:
		return Circuit{Dialect: DialectNone}, nil
	case 1:
	default:
		return Circuit{}, &MultipleCircuitsError{Count: len(docs)}
	}

	root := docs[0]
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind == 0 || root.Kind == yaml.DocumentNode || (root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null") {
		return Circuit{Dialect: DialectNone}, nil
	}
	if root.Kind != yaml.MappingNode {
		return Circuit{}, &SourceDetectionError{Want: want}
	}

	keys := topLevelKeys(root)
	for _, r := range recognizers {
		if want != DialectNone && r.dialect != want {
			continue
		}
		for _, k := range r.keys {
			if slices.Contains(keys, k) {
				return r.decode(root, file)
			}
		}
	}
	return Circuit{}, &SourceDetectionError{Keys: keys, Want: want}
}

func topLevelKeys(m *yaml.Node) []string {
	keys := make([]string, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		keys = append(keys, m.Content[i].Value)
	}
	return keys
}

func decodeMoment(root *yaml.Node, file string) (Circuit, error) {
	var doc struct {
		Moments []momentDoc `yaml:"moments"`
	}
	if err := root.Decode(&doc); err != nil {
		return Circuit{}, &ParseError{File: file, Message: "invalid moment circuit", Err: err}
	}
	c, err := momentCircuitFromDoc(doc.Moments, file)
	if err != nil {
		return Circuit{}, err
	}
	return Circuit{Dialect: DialectMoment, Moment: c}, nil
}

func decodeStream(root *yaml.Node, file string) (Circuit, error) {
	var doc struct {
		Instructions []instructionDoc `yaml:"instructions"`
	}
	if err := root.Decode(&doc); err != nil {
		return Circuit{}, &ParseError{File: file, Message: "invalid instruction stream", Err: err}
	}
	p, err := programFromDoc(doc.Instructions, file)
	if err != nil {
		return Circuit{}, err
	}
	return Circuit{Dialect: DialectStream, Stream: p}, nil
}

func decodeList(root *yaml.Node, file string) (Circuit, error) {
	var doc struct {
		Data        []instructionDoc `yaml:"data"`
		Experiments []experimentDoc  `yaml:"experiments"`
	}
	if err := root.Decode(&doc); err != nil {
		return Circuit{}, &ParseError{File: file, Message: "invalid circuit list", Err: err}
	}

	keys := topLevelKeys(root)
	instructions := doc.Data
	if slices.Contains(keys, "experiments") {
		if slices.Contains(keys, "data") {
			return Circuit{}, &ParseError{File: file, Message: "document has both data and experiments"}
		}
		switch n := len(doc.Experiments); {
		case n > 1:
			return Circuit{}, &MultipleCircuitsError{Count: n}
		case n == 1:
			instructions = doc.Experiments[0].Instructions
		}
	}

	c, err := listCircuitFromDoc(instructions, file)
	if err != nil {
		return Circuit{}, fmt.Errorf("list circuit: %w", err)
	}
	return Circuit{Dialect: DialectList, List: c}, nil
}
