package source

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// piExprRegex matches expressions like: pi, 2pi, 2*pi, pi/2, 3pi/4, 3*pi/4, -pi, -pi/2, -3*pi/4
var piExprRegex = regexp.MustCompile(`^([-+]?)(\d*\.?\d*)\s*\*?\s*pi(?:\s*/\s*(\d+\.?\d*))?$`)

// ParseAngle parses a parameter expression, supporting plain numbers and pi
// expressions.
//
// Supported formats:
//   - Plain numbers: "1.5707", "3.14", "-0.5", "3.14e-2"
//   - Pi constant: "pi"
//   - Pi fractions: "pi/2", "pi/4"
//   - Coefficients: "2pi", "2*pi", "3pi/4", "3*pi/4"
//   - Negative: "-pi", "-pi/2", "-3*pi/4"
func ParseAngle(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty parameter")
	}

	if val, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return 0, fmt.Errorf("parameter %q is not finite", s)
		}
		return val, nil
	}

	matches := piExprRegex.FindStringSubmatch(strings.ToLower(strings.ReplaceAll(s, " ", "")))
	if matches == nil {
		return 0, fmt.Errorf("invalid parameter %q", s)
	}

	coeff := 1.0
	if matches[2] != "" {
		var err error
		coeff, err = strconv.ParseFloat(matches[2], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid coefficient in %q", s)
		}
	}

	result := coeff * math.Pi
	if matches[3] != "" {
		denom, err := strconv.ParseFloat(matches[3], 64)
		if err != nil || denom == 0 {
			return 0, fmt.Errorf("invalid denominator in %q", s)
		}
		result /= denom
	}

	if matches[1] == "-" {
		result = -result
	}
	if math.IsInf(result, 0) {
		return 0, fmt.Errorf("parameter %q is not finite", s)
	}
	return result, nil
}

// Angle is a document parameter: a number or a pi expression string.
type Angle float64

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Angle) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: parameter must be a scalar", node.Line)
	}
	v, err := ParseAngle(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*a = Angle(v)
	return nil
}

func anglesToFloats(in []Angle) []float64 {
	if len(in) == 0 {
		return nil
	}
	out := make([]float64, len(in))
	for i, a := range in {
		out[i] = float64(a)
	}
	return out
}
