// SPDX-License-Identifier: MIT

package thermal_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/katalvlaran/ftlm/hubbard"
	"github.com/katalvlaran/ftlm/lanczos"
	"github.com/katalvlaran/ftlm/matrix"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// eigen is a full reference decomposition of a small dense Hamiltonian.
type eigen struct {
	values  []float64
	vectors *mat.Dense
}

func decompose(t *testing.T, h *matrix.Dense) eigen {
	t.Helper()
	n := h.Rows()
	data := make([]float64, 0, n*n)
	for i := 0; i < n; i++ {
		data = append(data, h.RawRow(i)...)
	}
	var es mat.EigenSym
	require.True(t, es.Factorize(mat.NewSymDense(n, data), true))
	var ev mat.Dense
	es.VectorsTo(&ev)

	return eigen{values: es.Values(nil), vectors: &ev}
}

// overlaps returns ⟨u_n|r⟩ for every eigenvector u_n.
func (e eigen) overlaps(r []float64) []float64 {
	out := make([]float64, len(e.values))
	for n := range out {
		out[n] = floats.Dot(mat.Col(nil, n, e.vectors), r)
	}

	return out
}

// energy returns ⟨r|e^{-βH}H|r⟩ / ⟨r|e^{-βH}|r⟩.
func (e eigen) energy(r []float64, beta float64) float64 {
	var num, den float64
	for n, c := range e.overlaps(r) {
		w := math.Exp(-beta*(e.values[n]-e.values[0])) * c * c
		num += w * e.values[n]
		den += w
	}

	return num / den
}

// halfPropagate returns e^{-β(H-λ0)/2}|r⟩.
func (e eigen) halfPropagate(r []float64, beta float64) []float64 {
	out := make([]float64, len(r))
	for n, c := range e.overlaps(r) {
		floats.AddScaled(out, math.Exp(-beta*(e.values[n]-e.values[0])/2)*c, mat.Col(nil, n, e.vectors))
	}

	return out
}

// thermalEnergy returns Tr[e^{-βH}H] / Tr[e^{-βH}].
func (e eigen) thermalEnergy(beta float64) float64 {
	var num, den float64
	for _, v := range e.values {
		w := math.Exp(-beta * (v - e.values[0]))
		num += w * v
		den += w
	}

	return num / den
}

func randomSymmetric(t *testing.T, rng *rand.Rand, n int) *matrix.Dense {
	t.Helper()
	h, err := matrix.NewDense(n, n)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := 2*rng.Float64() - 1
			require.NoError(t, h.Set(i, j, v))
			require.NoError(t, h.Set(j, i, v))
		}
	}

	return h
}

func operatorOf(h *matrix.Dense) lanczos.Operator {
	return func(v []float64) []float64 {
		y, err := matrix.MatVec(h, v)
		if err != nil {
			return nil
		}

		return y
	}
}

func gaussianGen(rng *rand.Rand, n int) func() []float64 {
	return func() []float64 {
		v := make([]float64, n)
		for i := range v {
			v[i] = rng.NormFloat64()
		}

		return v
	}
}

func mustHubbard(t testing.TB, cfg hubbard.Config) *hubbard.Model {
	t.Helper()
	m, err := hubbard.New(cfg)
	require.NoError(t, err)

	return m
}

// dimerEigenvector returns a normalized eigenvector of the Hubbard dimer
// (the antisymmetric doubly-occupied combination, eigenvalue U).
func dimerEigenvector() []float64 {
	// Index ia·2+ib: 0 = both on site 0, 3 = both on site 1.
	s := 1 / math.Sqrt2

	return []float64{s, 0, 0, -s}
}
