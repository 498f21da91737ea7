// SPDX-License-Identifier: MIT

package tridiag

import "math"

// Solver selects the eigensolver backend.
type Solver int

const (
	// LAPACK uses gonum's symmetric eigendecomposition (dsyev path).
	LAPACK Solver = iota

	// Jacobi uses the cyclic Jacobi solver of package matrix.
	Jacobi
)

// String implements fmt.Stringer.
func (s Solver) String() string {
	switch s {
	case LAPACK:
		return "lapack"
	case Jacobi:
		return "jacobi"
	default:
		return "unknown"
	}
}

// ParseSolver maps "lapack" / "jacobi" to a Solver.
func ParseSolver(name string) (Solver, error) {
	switch name {
	case "lapack", "":
		return LAPACK, nil
	case "jacobi":
		return Jacobi, nil
	default:
		return LAPACK, ErrUnknownSolver
	}
}

// Defaults (single source of truth).
const (
	// DefaultSolver is the backend used when no WithSolver is given.
	DefaultSolver = LAPACK

	// DefaultTolerance is the Jacobi off-diagonal threshold relative to
	// max(|a|, |b|).
	DefaultTolerance = 1e-14

	// DefaultMaxSweeps caps the Jacobi sweeps.
	DefaultMaxSweeps = 100
)

const (
	panicToleranceInvalid = "tridiag: WithTolerance: tol must be finite and > 0"
	panicSweepsInvalid    = "tridiag: WithMaxSweeps: sweeps must be > 0"
)

// Option mutates solver options. Constructors panic only on nonsensical
// values (programmer error).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
type Options struct {
	solver    Solver
	tol       float64
	maxSweeps int
}

// WithSolver selects the eigensolver backend.
func WithSolver(s Solver) Option {
	return func(o *Options) { o.solver = s }
}

// WithTolerance sets the relative Jacobi convergence threshold.
// Ignored by the LAPACK backend.
func WithTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol <= 0 {
		panic(panicToleranceInvalid)
	}

	return func(o *Options) { o.tol = tol }
}

// WithMaxSweeps caps Jacobi sweeps. Ignored by the LAPACK backend.
func WithMaxSweeps(sweeps int) Option {
	if sweeps <= 0 {
		panic(panicSweepsInvalid)
	}

	return func(o *Options) { o.maxSweeps = sweeps }
}

// gatherOptions applies setters on top of the defaults (last-writer-wins).
func gatherOptions(user ...Option) Options {
	o := Options{
		solver:    DefaultSolver,
		tol:       DefaultTolerance,
		maxSweeps: DefaultMaxSweeps,
	}
	for _, set := range user {
		set(&o)
	}

	return o
}
