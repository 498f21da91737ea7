// SPDX-License-Identifier: MIT

package lanczos

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrImmediateBreakdown indicates b[0] < MinB. Retryable with a new seed.
	ErrImmediateBreakdown = errors.New("lanczos: immediate breakdown on first step")

	// ErrEarlyTruncation indicates truncation before MinSteps vectors. Retryable.
	ErrEarlyTruncation = errors.New("lanczos: truncated below minimum steps")

	// ErrInvalidSteps indicates MaxSteps < 2 or a negative MinSteps.
	ErrInvalidSteps = errors.New("lanczos: invalid step bounds")

	// ErrInvalidThreshold indicates a non-positive or non-finite MinB.
	ErrInvalidThreshold = errors.New("lanczos: breakdown threshold must be finite and > 0")

	// ErrZeroSeed indicates an empty seed or a seed with zero (or non-finite) norm.
	ErrZeroSeed = errors.New("lanczos: seed must be non-empty with finite, non-zero norm")

	// ErrDimensionMismatch indicates the operator returned a vector of the wrong length.
	ErrDimensionMismatch = errors.New("lanczos: operator output length differs from input")

	// ErrNaNInf indicates a non-finite coefficient during the recurrence.
	ErrNaNInf = errors.New("lanczos: NaN or Inf coefficient")

	// ErrReorthNeedsBasis indicates Reorthogonalize without KeepBasis.
	ErrReorthNeedsBasis = errors.New("lanczos: Reorthogonalize requires KeepBasis")
)

// Operator maps a state vector to its image under the Hamiltonian.
// It must be linear, return a vector of the same length, and must not
// modify its argument.
type Operator func(v []float64) []float64

// NormFunc computes the norm used for normalization and breakdown tests.
type NormFunc func(v []float64) float64

// Euclidean is the default NormFunc (2-norm).
func Euclidean(v []float64) float64 { return floats.Norm(v, 2) }

// Defaults taken from common FTLM practice.
const (
	DefaultMaxSteps = 60
	DefaultMinB     = 1e-4
	DefaultMinSteps = 0
)

// Options configures Run.
//
// Fields:
//   - MaxSteps        - upper bound m on the number of basis vectors (≥ 2).
//   - MinB            - breakdown threshold on b[i] (> 0).
//   - MinSteps        - minimum accepted k on truncation: a recursion that stops
//     with k < MinSteps vectors fails, k == MinSteps is kept (0 disables the
//     check). A truncation at k == N is never rejected.
//   - KeepBasis       - retain every basis vector in Result.Basis.
//   - Reorthogonalize - Gram-Schmidt each new vector against the retained basis.
//   - Norm            - norm function; nil means Euclidean.
type Options struct {
	MaxSteps        int
	MinB            float64
	MinSteps        int
	KeepBasis       bool
	Reorthogonalize bool
	Norm            NormFunc
}

// DefaultOptions returns m=60, MinB=1e-4, no MinSteps, coefficients only.
func DefaultOptions() Options {
	return Options{
		MaxSteps: DefaultMaxSteps,
		MinB:     DefaultMinB,
		MinSteps: DefaultMinSteps,
		Norm:     Euclidean,
	}
}

// Validate reports configuration errors before any operator call.
func (o Options) Validate() error {
	if o.MaxSteps < 2 {
		return fmt.Errorf("MaxSteps=%d: %w", o.MaxSteps, ErrInvalidSteps)
	}
	if o.MinSteps < 0 {
		return fmt.Errorf("MinSteps=%d: %w", o.MinSteps, ErrInvalidSteps)
	}
	if math.IsNaN(o.MinB) || math.IsInf(o.MinB, 0) || o.MinB <= 0 {
		return fmt.Errorf("MinB=%g: %w", o.MinB, ErrInvalidThreshold)
	}
	if o.Reorthogonalize && !o.KeepBasis {
		return ErrReorthNeedsBasis
	}

	return nil
}

// Result holds the tridiagonal coefficients of one recursion.
//
//   - len(A) == len(B)+1 == k ≤ MaxSteps.
//   - Basis has k unit vectors when KeepBasis was set, else nil.
//   - Truncated reports a breakdown at some i > 0.
type Result struct {
	A         []float64
	B         []float64
	Basis     [][]float64
	Truncated bool
}

// Len returns the actual Krylov dimension k.
func (r *Result) Len() int { return len(r.A) }

// Run executes the Lanczos recurrence from seed.
//
// Implementation:
//   - Stage 1: validate options and seed; normalize the seed with opts.Norm.
//   - Stage 2: iterate the three-term recurrence into buffers of capacity
//     MaxSteps, stopping at MaxSteps or on breakdown.
//   - Stage 3: apply the MinSteps policy to a truncated result.
//
// Errors:
//   - ErrInvalidSteps, ErrInvalidThreshold, ErrReorthNeedsBasis, ErrZeroSeed (configuration).
//   - ErrDimensionMismatch, ErrNaNInf (operator misbehaviour).
//   - ErrImmediateBreakdown, ErrEarlyTruncation (retryable).
//
// Complexity:
//   - k operator applications plus O(k·N) vector work
//     (O(k²·N) with Reorthogonalize).
func Run(op Operator, seed []float64, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if op == nil {
		return nil, errors.New("lanczos: nil operator")
	}
	norm := opts.Norm
	if norm == nil {
		norm = Euclidean
	}

	n := len(seed)
	if n == 0 {
		return nil, ErrZeroSeed
	}
	s0 := norm(seed)
	if s0 == 0 || math.IsNaN(s0) || math.IsInf(s0, 0) {
		return nil, fmt.Errorf("norm=%g: %w", s0, ErrZeroSeed)
	}

	m := opts.MaxSteps
	res := &Result{
		A: make([]float64, 0, m),
		B: make([]float64, 0, m-1),
	}
	cur := make([]float64, n)
	floats.ScaleTo(cur, 1/s0, seed)
	if opts.KeepBasis {
		res.Basis = make([][]float64, 0, m)
		res.Basis = append(res.Basis, cur)
	}

	var (
		prev, next []float64
		w          = make([]float64, n)
		ai, bi     float64
		i          int
	)
	for i = 0; i < m; i++ {
		hv := op(cur)
		if len(hv) != n {
			return nil, fmt.Errorf("step %d: got %d want %d: %w", i, len(hv), n, ErrDimensionMismatch)
		}
		copy(w, hv)

		ai = floats.Dot(cur, w)
		if math.IsNaN(ai) || math.IsInf(ai, 0) {
			return nil, fmt.Errorf("step %d: a=%g: %w", i, ai, ErrNaNInf)
		}
		res.A = append(res.A, ai)
		if i == m-1 {
			break
		}

		floats.AddScaled(w, -ai, cur)
		if prev != nil {
			floats.AddScaled(w, -res.B[i-1], prev)
		}
		if opts.Reorthogonalize {
			for _, u := range res.Basis {
				floats.AddScaled(w, -floats.Dot(u, w), u)
			}
		}

		bi = norm(w)
		if math.IsNaN(bi) || math.IsInf(bi, 0) {
			return nil, fmt.Errorf("step %d: b=%g: %w", i, bi, ErrNaNInf)
		}
		if bi < opts.MinB {
			if i == 0 {
				return nil, fmt.Errorf("b[0]=%.3g < %.3g: %w", bi, opts.MinB, ErrImmediateBreakdown)
			}
			res.Truncated = true
			break
		}
		res.B = append(res.B, bi)

		// Without a retained basis the storage of v_{i-1} is free again.
		if opts.KeepBasis || prev == nil {
			next = make([]float64, n)
		} else {
			next = prev
		}
		floats.ScaleTo(next, 1/bi, w)
		if opts.KeepBasis {
			res.Basis = append(res.Basis, next)
		}
		prev, cur = cur, next
	}

	k := res.Len()
	if res.Truncated && k < opts.MinSteps && k < n {
		return nil, fmt.Errorf("k=%d < %d: %w", k, opts.MinSteps, ErrEarlyTruncation)
	}

	return res, nil
}
