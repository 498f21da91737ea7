// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   • Provide small, deterministic test fixtures and utilities for kernels.
//   • Keep all data finite and well-formed.

package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/ftlm/matrix"
	"github.com/stretchr/testify/require"
)

// hide wraps any Matrix to hide its concrete type from type assertions,
// forcing the At-based fallback paths in kernels under test.
type hide struct{ matrix.Matrix }

// MustDense allocates an r×c *Dense filled with vals (row-major) or fails the test.
func MustDense(t *testing.T, r, c int, vals ...float64) *matrix.Dense {
	t.Helper()
	if len(vals) == 0 {
		m, err := matrix.NewDense(r, c)
		require.NoError(t, err)

		return m
	}
	m, err := matrix.NewDenseFrom(r, c, vals)
	require.NoError(t, err)

	return m
}

// MustAt reads m[i,j] or fails the test.
func MustAt(t *testing.T, m matrix.Matrix, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	require.NoError(t, err)

	return v
}

// propOrthonormal asserts QᵗQ ≈ I within tol.
func propOrthonormal(t *testing.T, q matrix.Matrix, tol float64) {
	t.Helper()
	qt, err := matrix.Transpose(q)
	require.NoError(t, err)
	qtq, err := matrix.Mul(qt, q)
	require.NoError(t, err)
	id, err := matrix.NewIdentity(q.Cols())
	require.NoError(t, err)
	ok, err := matrix.AllClose(qtq, id, 0, tol)
	require.NoError(t, err)
	require.True(t, ok, "QᵗQ != I:\n%v", qtq)
}

// propEigenEquation asserts A·q_i ≈ λ_i·q_i for every column i.
func propEigenEquation(t *testing.T, a, q matrix.Matrix, vals []float64, tol float64) {
	t.Helper()
	n := a.Rows()
	var i, j int
	col := make([]float64, n)
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			col[j] = MustAt(t, q, j, i)
		}
		av, err := matrix.MatVec(a, col)
		require.NoError(t, err)
		for j = 0; j < n; j++ {
			require.LessOrEqual(t, math.Abs(av[j]-vals[i]*col[j]), tol,
				"eigenpair %d component %d", i, j)
		}
	}
}
