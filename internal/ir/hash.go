package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainCircuit prefixes circuit hashes for domain separation.
// Version suffix enables future algorithm migration.
const DomainCircuit = "qnorm/circuit/v1"

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte (0x00) separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Hash computes the content hash of a circuit over its canonical JSON,
// including the qubit count. Equal circuits hash equally regardless of how
// their gates were constructed.
func Hash(c *Circuit) (string, error) {
	canonical, err := CanonicalCircuit(c)
	if err != nil {
		return "", fmt.Errorf("Hash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainCircuit, canonical), nil
}

// MustHash is like Hash but panics on error.
// Use only in tests or when the circuit is known to be valid.
func MustHash(c *Circuit) string {
	h, err := Hash(c)
	if err != nil {
		panic(err)
	}
	return h
}
