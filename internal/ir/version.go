package ir

// Version constants for IR schema and normalizer.
const (
	// IRVersion is the IR schema version.
	IRVersion = "1"

	// NormalizerVersion is the qnorm normalizer version.
	NormalizerVersion = "0.3.0"
)
