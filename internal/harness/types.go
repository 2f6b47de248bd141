package harness

import "github.com/roach88/qnorm/internal/ir"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates every expectation and assertion held.
	Pass bool `json:"pass"`

	// Dialect is the detected source dialect, when detection succeeded.
	Dialect string `json:"dialect,omitempty"`

	// Circuit is the normalized IR. Nil when normalization failed.
	Circuit *ir.Circuit `json:"-"`

	// ErrorCode is the stable code of the normalization error, if any.
	ErrorCode string `json:"error_code,omitempty"`

	// Err is the normalization error, if any.
	Err error `json:"-"`

	// Histogram is the engine result when the scenario executes.
	Histogram map[string]int `json:"histogram,omitempty"`

	// Calls counts simulator calls made while executing.
	Calls int `json:"calls"`

	// Recorded counts runs written to the scenario's run log.
	Recorded int `json:"recorded"`

	// Errors contains failed expectation messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError records a failed expectation and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
