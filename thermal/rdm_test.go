// SPDX-License-Identifier: MIT

package thermal_test

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/katalvlaran/ftlm/hubbard"
	"github.com/katalvlaran/ftlm/lanczos"
	"github.com/katalvlaran/ftlm/matrix"
	"github.com/katalvlaran/ftlm/thermal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func assertClose(t *testing.T, want, got *matrix.Dense, atol float64) {
	t.Helper()
	ok, err := matrix.AllClose(want, got, 0, atol)
	require.NoError(t, err)
	assert.True(t, ok, "want\n%vgot\n%v", want, got)
}

func TestRDMSample_TraceIsParticleNumber(t *testing.T) {
	t.Parallel()

	m := mustHubbard(t, hubbard.Config{Sites: 5, NUp: 2, NDown: 1, T: 1, U: 4, Periodic: true})
	gen := m.Generator(rand.New(rand.NewPCG(10, 1)))

	for _, steps := range []int{3, 8, 20} {
		opts := thermal.DefaultRDMOptions(m.Sites())
		opts.Temperature = 0.4
		opts.MaxSteps = steps
		opts.Reorthogonalize = true

		rdm, err := thermal.RDMSample(m.OneBody, m.Apply, gen(), opts)
		require.NoError(t, err)
		assert.InDelta(t, 2, rdm.Alpha.Trace(), 1e-9, "m=%d", steps)
		assert.InDelta(t, 1, rdm.Beta.Trace(), 1e-9, "m=%d", steps)
		assert.InDelta(t, 3, rdm.Trace(), 1e-9)
		require.NoError(t, matrix.ValidateSymmetric(rdm.Alpha, 1e-10))
	}
}

func TestRDMSample_InfiniteTemperatureIsSeedElement(t *testing.T) {
	t.Parallel()

	// At β = 0 the Krylov weights collapse onto v0 for any k.
	m := mustHubbard(t, hubbard.Config{Sites: 4, NUp: 2, NDown: 2, T: 1, U: 2})
	r := m.Generator(rand.New(rand.NewPCG(2, 2)))()
	unit := make([]float64, len(r))
	floats.ScaleTo(unit, 1/floats.Norm(r, 2), r)

	opts := thermal.DefaultRDMOptions(m.Sites())
	opts.Temperature = math.Inf(1)
	opts.MaxSteps = 6
	rdm, err := thermal.RDMSample(m.OneBody, m.Apply, r, opts)
	require.NoError(t, err)

	wantA, wantB, err := m.OneBody(unit, unit)
	require.NoError(t, err)
	assertClose(t, wantA, rdm.Alpha, 1e-10)
	assertClose(t, wantB, rdm.Beta, 1e-10)
}

func TestRDMSample_FullKrylovMatchesExactPropagation(t *testing.T) {
	t.Parallel()

	m := mustHubbard(t, hubbard.Config{Sites: 4, NUp: 2, NDown: 2, T: 1, U: 3, Periodic: true})
	h, err := m.Dense()
	require.NoError(t, err)
	ref := decompose(t, h)
	r := m.Generator(rand.New(rand.NewPCG(12, 4)))()

	const temp = 0.6
	opts := thermal.DefaultRDMOptions(m.Sites())
	opts.Temperature = temp
	opts.MaxSteps = m.Dim()
	opts.Reorthogonalize = true
	rdm, err := thermal.RDMSample(m.OneBody, m.Apply, r, opts)
	require.NoError(t, err)

	// ρ = ⟨ψ|c†c|ψ⟩ / ⟨ψ|ψ⟩ with ψ = e^{-βH/2} r.
	psi := ref.halfPropagate(r, 1/temp)
	wantA, wantB, err := m.OneBody(psi, psi)
	require.NoError(t, err)
	z := floats.Dot(psi, psi)
	require.NoError(t, wantA.Scale(1/z))
	require.NoError(t, wantB.Scale(1/z))

	assertClose(t, wantA, rdm.Alpha, 1e-8)
	assertClose(t, wantB, rdm.Beta, 1e-8)
}

func TestRDMSample_Errors(t *testing.T) {
	t.Parallel()

	m := mustHubbard(t, hubbard.Config{Sites: 2, NUp: 1, NDown: 1, T: 1, U: 4})
	seed := m.Generator(rand.New(rand.NewPCG(3, 1)))()

	_, err := thermal.RDMSample(m.OneBody, m.Apply, seed, thermal.DefaultRDMOptions(0))
	assert.ErrorIs(t, err, thermal.ErrInvalidConfig)

	_, err = thermal.RDMSample(nil, m.Apply, seed, thermal.DefaultRDMOptions(2))
	assert.ErrorIs(t, err, thermal.ErrInvalidConfig)

	_, err = thermal.RDMSample(m.OneBody, m.Apply, seed, thermal.DefaultRDMOptions(3))
	assert.ErrorIs(t, err, thermal.ErrDimensionMismatch)

	boom := errors.New("boom")
	failing := func(bra, ket []float64) (*matrix.Dense, *matrix.Dense, error) { return nil, nil, boom }
	_, err = thermal.RDMSample(failing, m.Apply, seed, thermal.DefaultRDMOptions(2))
	assert.ErrorIs(t, err, boom)
	assert.False(t, thermal.IsRetryable(err))

	_, err = thermal.RDMSample(m.OneBody, m.Apply, dimerEigenvector(), thermal.DefaultRDMOptions(2))
	assert.ErrorIs(t, err, lanczos.ErrImmediateBreakdown)
}

func TestRDMs_AveragesSingleSamples(t *testing.T) {
	t.Parallel()

	m := mustHubbard(t, hubbard.Config{Sites: 4, NUp: 2, NDown: 1, T: 1, U: 2})
	opts := thermal.DefaultRDMOptions(m.Sites())
	opts.Samples = 3
	opts.MaxSteps = 10

	est, err := thermal.RDMs(context.Background(), m.OneBody, m.Apply, m.Generator(rand.New(rand.NewPCG(5, 0))), opts)
	require.NoError(t, err)
	assert.Equal(t, 3, est.Accepted)
	assert.Zero(t, est.Rejected)

	gen := m.Generator(rand.New(rand.NewPCG(5, 0)))
	wantA, err := matrix.NewDense(4, 4)
	require.NoError(t, err)
	wantB, err := matrix.NewDense(4, 4)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		one, err := thermal.RDMSample(m.OneBody, m.Apply, gen(), opts)
		require.NoError(t, err)
		require.NoError(t, wantA.AddScaled(1.0/3, one.Alpha))
		require.NoError(t, wantB.AddScaled(1.0/3, one.Beta))
	}
	assertClose(t, wantA, est.Alpha, 1e-12)
	assertClose(t, wantB, est.Beta, 1e-12)
	assert.InDelta(t, 3, est.Trace(), 1e-8)
}

func TestRDMs_ParallelMatchesSerial(t *testing.T) {
	t.Parallel()

	m := mustHubbard(t, hubbard.Config{Sites: 5, NUp: 2, NDown: 2, T: 1, U: 4})
	opts := thermal.DefaultRDMOptions(m.Sites())
	opts.Samples = 6
	opts.MaxSteps = 12

	serial, err := thermal.RDMs(context.Background(), m.OneBody, m.Apply, m.Generator(rand.New(rand.NewPCG(1, 9))), opts)
	require.NoError(t, err)
	opts.Workers = 3
	parallel, err := thermal.RDMs(context.Background(), m.OneBody, m.Apply, m.Generator(rand.New(rand.NewPCG(1, 9))), opts)
	require.NoError(t, err)

	assertClose(t, serial.Alpha, parallel.Alpha, 1e-12)
	assertClose(t, serial.Beta, parallel.Beta, 1e-12)
	assert.Equal(t, serial.Accepted, parallel.Accepted)
}

func TestRDMs_RetriesExhausted(t *testing.T) {
	t.Parallel()

	m := mustHubbard(t, hubbard.Config{Sites: 2, NUp: 1, NDown: 1, T: 1, U: 4})
	opts := thermal.DefaultRDMOptions(2)
	opts.MaxRetries = 2
	_, err := thermal.RDMs(context.Background(), m.OneBody, m.Apply, dimerEigenvector, opts)
	require.ErrorIs(t, err, thermal.ErrRetriesExhausted)
	assert.ErrorIs(t, err, lanczos.ErrImmediateBreakdown)
}

func TestRDMs_DegenerateSpectrumTruncatesBelowDistinctLevels(t *testing.T) {
	t.Parallel()

	// Two spinless fermions on a three-site ring: spectrum {-1, -1, 2}.
	// Every seed's Krylov space closes at k = 2 < N = 3.
	m := mustHubbard(t, hubbard.Config{Sites: 3, NUp: 2, NDown: 0, T: 1, Periodic: true})
	opts := thermal.DefaultRDMOptions(m.Sites())
	opts.Samples = 3

	est, err := thermal.RDMs(context.Background(), m.OneBody, m.Apply, m.Generator(rand.New(rand.NewPCG(6, 6))), opts)
	require.NoError(t, err)
	assert.Zero(t, est.Rejected)
	assert.InDelta(t, 2.0, est.Alpha.Trace(), 1e-9)
	assert.InDelta(t, 0.0, est.Beta.Trace(), 1e-12)

	opts.MinSteps = 30
	opts.MaxRetries = 3
	_, err = thermal.RDMs(context.Background(), m.OneBody, m.Apply, m.Generator(rand.New(rand.NewPCG(6, 6))), opts)
	require.ErrorIs(t, err, thermal.ErrRetriesExhausted)
	assert.ErrorIs(t, err, lanczos.ErrEarlyTruncation)
}
