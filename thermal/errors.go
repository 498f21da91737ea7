// SPDX-License-Identifier: MIT

package thermal

import (
	"errors"

	"github.com/katalvlaran/ftlm/lanczos"
)

var (
	// ErrInvalidConfig indicates a configuration rejected before any iteration
	// (non-positive temperature, bad step bounds, missing norb, ...).
	ErrInvalidConfig = errors.New("thermal: invalid configuration")

	// ErrRetriesExhausted indicates that more than Options.MaxRetries draws
	// were rejected. It wraps the last retryable cause.
	ErrRetriesExhausted = errors.New("thermal: retry budget exhausted")

	// ErrPartitionUnderflow indicates the Boltzmann-weighted seed overlap sum
	// was zero or non-finite. Retryable.
	ErrPartitionUnderflow = errors.New("thermal: partition sum underflow")

	// ErrDimensionMismatch indicates an element function returned matrices
	// that are not norb×norb.
	ErrDimensionMismatch = errors.New("thermal: element matrix shape differs from norb×norb")
)

// IsRetryable reports whether err is a per-seed failure that a fresh random
// seed may avoid: an immediate Lanczos breakdown, a truncation below the
// minimum step count, a zero seed, or a partition-sum underflow.
// An exhausted retry budget is final even though it wraps such a cause.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRetriesExhausted) {
		return false
	}

	return errors.Is(err, lanczos.ErrImmediateBreakdown) ||
		errors.Is(err, lanczos.ErrEarlyTruncation) ||
		errors.Is(err, lanczos.ErrZeroSeed) ||
		errors.Is(err, ErrPartitionUnderflow)
}
