package source

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// foldUpper normalizes an identifier to NFC upper case (Quil spelling).
// A Caser is stateful, so one is created per call.
func foldUpper(s string) string {
	return cases.Upper(language.Und).String(norm.NFC.String(strings.TrimSpace(s)))
}

// foldLower normalizes an identifier to NFC lower case (qiskit spelling).
func foldLower(s string) string {
	return cases.Lower(language.Und).String(norm.NFC.String(strings.TrimSpace(s)))
}
