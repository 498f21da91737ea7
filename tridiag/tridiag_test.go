// SPDX-License-Identifier: MIT

package tridiag_test

import (
	"math"
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/katalvlaran/ftlm/matrix"
	"github.com/katalvlaran/ftlm/tridiag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var solvers = []tridiag.Solver{tridiag.LAPACK, tridiag.Jacobi}

// randomCoefficients returns a Lanczos-like (a, b) pair with b > 0.
func randomCoefficients(rng *rand.Rand, k int) ([]float64, []float64) {
	a := make([]float64, k)
	b := make([]float64, k-1)
	for i := range a {
		a[i] = 4*rng.Float64() - 2
	}
	for i := range b {
		b[i] = 0.1 + rng.Float64()
	}

	return a, b
}

// requireDecomposition checks phi·diag(eps)·phiᵗ ≈ T and phiᵗ·phi ≈ I.
func requireDecomposition(t *testing.T, a, b []float64, spec *tridiag.Spectrum, tol float64) {
	t.Helper()
	k := len(a)
	require.Equal(t, k, spec.Len())
	require.True(t, sort.Float64sAreSorted(spec.Values), "eigenvalues not ascending: %v", spec.Values)

	d, err := matrix.NewDense(k, k)
	require.NoError(t, err)
	for i, v := range spec.Values {
		require.NoError(t, d.Set(i, i, v))
	}
	pd, err := matrix.Mul(spec.Vectors, d)
	require.NoError(t, err)
	pt, err := matrix.Transpose(spec.Vectors)
	require.NoError(t, err)
	rebuilt, err := matrix.Mul(pd, pt)
	require.NoError(t, err)
	tri, err := matrix.NewSymTridiagonal(a, b)
	require.NoError(t, err)
	ok, err := matrix.AllClose(rebuilt, tri, 0, tol)
	require.NoError(t, err)
	require.True(t, ok, "reconstruction failed:\n%v\nwant\n%v", rebuilt, tri)

	ptp, err := matrix.Mul(pt, spec.Vectors)
	require.NoError(t, err)
	id, err := matrix.NewIdentity(k)
	require.NoError(t, err)
	ok, err = matrix.AllClose(ptp, id, 0, tol)
	require.NoError(t, err)
	require.True(t, ok, "eigenvectors not orthonormal:\n%v", ptp)
}

func TestSolve_Reconstruction(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(7, 11))
	for _, solver := range solvers {
		for _, k := range []int{1, 2, 3, 8, 25, 60} {
			a, b := randomCoefficients(rng, k)
			spec, err := tridiag.Solve(a, b, tridiag.WithSolver(solver))
			require.NoError(t, err, "solver=%v k=%d", solver, k)
			requireDecomposition(t, a, b, spec, 1e-10)
		}
	}
}

func TestSolve_SolversAgree(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(3, 5))
	a, b := randomCoefficients(rng, 30)
	lp, err := tridiag.Solve(a, b)
	require.NoError(t, err)
	jc, err := tridiag.Solve(a, b, tridiag.WithSolver(tridiag.Jacobi))
	require.NoError(t, err)

	require.Equal(t, lp.Len(), jc.Len())
	for i := range lp.Values {
		assert.InDelta(t, lp.Values[i], jc.Values[i], 1e-10, "eigenvalue %d", i)
		// Columns agree up to sign, so squared seed overlaps agree.
		assert.InDelta(t, math.Pow(lp.Component(0, i), 2), math.Pow(jc.Component(0, i), 2), 1e-8, "overlap %d", i)
	}
}

func TestSolve_Analytic2x2(t *testing.T) {
	t.Parallel()

	for _, solver := range solvers {
		spec, err := tridiag.Solve([]float64{2, 2}, []float64{1}, tridiag.WithSolver(solver))
		require.NoError(t, err)
		assert.InDelta(t, 1.0, spec.Values[0], 1e-12)
		assert.InDelta(t, 3.0, spec.Values[1], 1e-12)
		assert.InDelta(t, 0.5, spec.Component(0, 0)*spec.Component(0, 0), 1e-12)
	}
}

func TestSolve_ZeroMatrix(t *testing.T) {
	t.Parallel()

	for _, solver := range solvers {
		spec, err := tridiag.Solve([]float64{0, 0, 0}, []float64{0, 0}, tridiag.WithSolver(solver))
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 0, 0}, spec.Values)
	}
}

func TestSolve_Errors(t *testing.T) {
	t.Parallel()

	_, err := tridiag.Solve(nil, nil)
	assert.ErrorIs(t, err, tridiag.ErrEmpty)

	_, err = tridiag.Solve([]float64{1, 2}, []float64{})
	assert.ErrorIs(t, err, tridiag.ErrLengthMismatch)

	_, err = tridiag.Solve([]float64{1, math.NaN()}, []float64{1})
	assert.ErrorIs(t, err, tridiag.ErrNaNInf)

	_, err = tridiag.Solve([]float64{1, 1}, []float64{math.Inf(1)})
	assert.ErrorIs(t, err, tridiag.ErrNaNInf)

	_, err = tridiag.Solve([]float64{1, 1}, []float64{1}, tridiag.WithSolver(tridiag.Solver(42)))
	assert.ErrorIs(t, err, tridiag.ErrUnknownSolver)

	_, err = tridiag.Solve([]float64{1, 3}, []float64{1}, tridiag.WithSolver(tridiag.Jacobi), tridiag.WithMaxSweeps(1), tridiag.WithTolerance(1e-300))
	// One sweep zeroes the single off-diagonal of a 2×2 exactly.
	assert.NoError(t, err)
}

func TestOptions_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { tridiag.WithTolerance(0) })
	assert.Panics(t, func() { tridiag.WithTolerance(math.NaN()) })
	assert.Panics(t, func() { tridiag.WithMaxSweeps(0) })
}

func TestParseSolver(t *testing.T) {
	t.Parallel()

	s, err := tridiag.ParseSolver("jacobi")
	require.NoError(t, err)
	assert.Equal(t, tridiag.Jacobi, s)
	assert.Equal(t, "jacobi", s.String())

	s, err = tridiag.ParseSolver("")
	require.NoError(t, err)
	assert.Equal(t, tridiag.LAPACK, s)

	_, err = tridiag.ParseSolver("qr")
	assert.ErrorIs(t, err, tridiag.ErrUnknownSolver)
}
