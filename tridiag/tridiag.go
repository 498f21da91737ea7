// SPDX-License-Identifier: MIT

package tridiag

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/ftlm/matrix"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrEmpty indicates a zero-length diagonal.
	ErrEmpty = errors.New("tridiag: diagonal must be non-empty")

	// ErrLengthMismatch indicates len(b) != len(a)-1.
	ErrLengthMismatch = errors.New("tridiag: off-diagonal length must be len(diagonal)-1")

	// ErrNaNInf indicates a non-finite coefficient.
	ErrNaNInf = errors.New("tridiag: NaN or Inf coefficient")

	// ErrNoConvergence indicates the backend failed to converge.
	ErrNoConvergence = errors.New("tridiag: eigensolver did not converge")

	// ErrUnknownSolver indicates an unrecognized solver name or value.
	ErrUnknownSolver = errors.New("tridiag: unknown solver")
)

const opSolve = "tridiag.Solve"

// Spectrum is the eigendecomposition of a k×k symmetric tridiagonal matrix.
//
//   - Values are ascending.
//   - Vectors is k×k and orthogonal; column i is the eigenvector of Values[i].
type Spectrum struct {
	Values  []float64
	Vectors *matrix.Dense
}

// Len returns k.
func (s *Spectrum) Len() int { return len(s.Values) }

// Component returns phi[p,i], the p-th Krylov component of eigenvector i.
// Row p = 0 is the overlap with the Lanczos seed.
func (s *Spectrum) Component(p, i int) float64 {
	return s.Vectors.RawRow(p)[i]
}

// Solve diagonalizes the symmetric tridiagonal matrix (a, b).
//
// Implementation:
//   - Stage 1: validate lengths and finiteness.
//   - Stage 2: k == 1 is returned directly.
//   - Stage 3: dispatch to the selected backend; normalize to ascending order.
//
// Errors:
//   - ErrEmpty, ErrLengthMismatch, ErrNaNInf, ErrNoConvergence, ErrUnknownSolver.
//
// Complexity:
//   - Time O(k³), Space O(k²).
func Solve(a, b []float64, opts ...Option) (*Spectrum, error) {
	o := gatherOptions(opts...)

	k := len(a)
	if k == 0 {
		return nil, fmt.Errorf("%s: %w", opSolve, ErrEmpty)
	}
	if len(b) != k-1 {
		return nil, fmt.Errorf("%s: len(a)=%d len(b)=%d: %w", opSolve, k, len(b), ErrLengthMismatch)
	}
	for _, v := range a {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%s: %w", opSolve, ErrNaNInf)
		}
	}
	for _, v := range b {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%s: %w", opSolve, ErrNaNInf)
		}
	}

	if k == 1 {
		vec, err := matrix.NewIdentity(1)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", opSolve, err)
		}

		return &Spectrum{Values: []float64{a[0]}, Vectors: vec}, nil
	}

	switch o.solver {
	case LAPACK:
		return solveLAPACK(a, b)
	case Jacobi:
		return solveJacobi(a, b, o)
	default:
		return nil, fmt.Errorf("%s: %v: %w", opSolve, o.solver, ErrUnknownSolver)
	}
}

// solveLAPACK runs gonum's EigenSym on the packed symmetric matrix.
// Values come back ascending already.
func solveLAPACK(a, b []float64) (*Spectrum, error) {
	k := len(a)
	sym := mat.NewSymDense(k, nil)
	var i, j int
	for i = 0; i < k; i++ {
		sym.SetSym(i, i, a[i])
		if i < k-1 {
			sym.SetSym(i, i+1, b[i])
		}
	}

	var es mat.EigenSym
	if ok := es.Factorize(sym, true); !ok {
		return nil, fmt.Errorf("%s: %v: %w", opSolve, LAPACK, ErrNoConvergence)
	}
	values := es.Values(nil)
	var ev mat.Dense
	es.VectorsTo(&ev)

	vec, err := matrix.NewDense(k, k)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opSolve, err)
	}
	for i = 0; i < k; i++ {
		row := vec.RawRow(i)
		for j = 0; j < k; j++ {
			row[j] = ev.At(i, j)
		}
	}

	return &Spectrum{Values: values, Vectors: vec}, nil
}

// solveJacobi runs matrix.Eigen and sorts the eigenpairs ascending.
// The tolerance is scaled by the largest coefficient magnitude.
func solveJacobi(a, b []float64, o Options) (*Spectrum, error) {
	k := len(a)
	scale := 0.0
	for _, v := range a {
		scale = max(scale, math.Abs(v))
	}
	for _, v := range b {
		scale = max(scale, math.Abs(v))
	}
	if scale == 0 {
		scale = 1
	}

	tri, err := matrix.NewSymTridiagonal(a, b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opSolve, err)
	}
	vals, q, err := matrix.Eigen(tri, o.tol*scale, o.maxSweeps)
	if errors.Is(err, matrix.ErrMatrixEigenFailed) {
		return nil, fmt.Errorf("%s: %v: %w", opSolve, Jacobi, ErrNoConvergence)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opSolve, err)
	}

	order := make([]int, k)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool { return vals[order[x]] < vals[order[y]] })

	values := make([]float64, k)
	vec, err := matrix.NewDense(k, k)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opSolve, err)
	}
	var i, p int
	for i = 0; i < k; i++ {
		values[i] = vals[order[i]]
	}
	for p = 0; p < k; p++ {
		src, dst := q.RawRow(p), vec.RawRow(p)
		for i = 0; i < k; i++ {
			dst[i] = src[order[i]]
		}
	}

	return &Spectrum{Values: values, Vectors: vec}, nil
}
