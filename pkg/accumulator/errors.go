// Copyright 2025 Certen Protocol

package accumulator

import "errors"

// Error kinds raised by this package, matching the SetupError / ProofFailed
// kinds of the overall error-handling design.
var (
	// ErrSetup covers invalid q or an element outside [1..q] passed to
	// gen_key / from_set*.
	ErrSetup = errors.New("setup error")

	// ErrProofFailed covers a failed pairing or additive-consistency check
	// in a subset proof.
	ErrProofFailed = errors.New("proof failed")
)
