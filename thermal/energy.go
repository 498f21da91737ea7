// SPDX-License-Identifier: MIT

package thermal

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/ftlm/lanczos"
	"github.com/katalvlaran/ftlm/tridiag"
	"gonum.org/v1/gonum/stat"
)

const (
	opEnergySample = "thermal.EnergySample"
	opEnergy       = "thermal.Energy"
)

// EnergyEstimate is the result of a stochastic energy estimate.
//
//   - Mean is the arithmetic mean of the accepted single-sample energies.
//   - StdErr is the standard error of that mean (0 for a single sample).
//   - Samples holds the accepted single-sample energies in slot order.
//   - Accepted is len(Samples); Rejected counts redrawn seeds.
type EnergyEstimate struct {
	Mean     float64
	StdErr   float64
	Samples  []float64
	Accepted int
	Rejected int
}

// EnergySample returns the FTLM thermal energy seen from one seed:
//
//	E = Σ_i e^{-β eps_i} eps_i phi0i² / Σ_i e^{-β eps_i} phi0i²
//
// where (eps_i, phi) is the spectrum of the Lanczos tridiagonal matrix of
// the seed and β = 1/(kB·T).
//
// Implementation:
//   - Stage 1: Lanczos coefficients only (no basis), k = actual length.
//   - Stage 2: tridiagonal eigendecomposition.
//   - Stage 3: Boltzmann factors shifted by the lowest Ritz value. The shift
//     cancels in the ratio and keeps the weights in [0, 1].
//
// Errors:
//   - ErrInvalidConfig (wrapped) for bad options.
//   - lanczos.ErrImmediateBreakdown, lanczos.ErrEarlyTruncation, ErrPartitionUnderflow (retryable).
//   - operator and solver failures, wrapped.
func EnergySample(op lanczos.Operator, seed []float64, opts Options) (float64, error) {
	if err := opts.validateSample(false); err != nil {
		return 0, fmt.Errorf("%s: %w", opEnergySample, err)
	}

	return energySample(op, seed, opts)
}

func energySample(op lanczos.Operator, seed []float64, opts Options) (float64, error) {
	res, err := lanczos.Run(op, seed, opts.lanczosOptions(false))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", opEnergySample, err)
	}
	spec, err := tridiag.Solve(res.A, res.B, tridiag.WithSolver(opts.Solver))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", opEnergySample, err)
	}

	var (
		beta     = opts.Beta()
		e0       = spec.Values[0]
		num, den float64
		w, phi   float64
		i        int
	)
	for i = 0; i < spec.Len(); i++ {
		phi = spec.Component(0, i)
		w = math.Exp(-beta*(spec.Values[i]-e0)) * phi * phi
		num += w * spec.Values[i]
		den += w
	}
	if den == 0 || math.IsNaN(den) || math.IsInf(den, 0) {
		return 0, fmt.Errorf("%s: Z=%g: %w", opEnergySample, den, ErrPartitionUnderflow)
	}

	return num / den, nil
}

// Energy averages EnergySample over opts.Samples random seeds drawn from gen.
//
// Seeds failing with a retryable error are replaced by fresh draws; more
// than opts.MaxRetries rejections in total yield ErrRetriesExhausted.
// Non-retryable errors abort immediately. Context cancellation is checked
// before every draw.
//
// Mean is the arithmetic mean of per-seed ratios; StdErr measures its
// sampling error only, not the O(1/N) finite-temperature bias.
func Energy(ctx context.Context, op lanczos.Operator, gen Generator, opts Options) (*EnergyEstimate, error) {
	if err := opts.validateStochastic(false); err != nil {
		return nil, fmt.Errorf("%s: %w", opEnergy, err)
	}

	set, err := collect(ctx, gen, opts, func(seed []float64) (float64, error) {
		return energySample(op, seed, opts)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opEnergy, err)
	}

	est := &EnergyEstimate{Samples: set.values, Accepted: len(set.values), Rejected: set.rejected}
	if n := len(set.values); n > 1 {
		var std float64
		est.Mean, std = stat.MeanStdDev(set.values, nil)
		est.StdErr = std / math.Sqrt(float64(n))
	} else {
		est.Mean = set.values[0]
	}
	opts.Logger.Info().
		Float64("temperature", opts.Temperature).
		Int("samples", len(set.values)).
		Int("rejected", set.rejected).
		Float64("energy", est.Mean).
		Float64("stderr", est.StdErr).
		Msg("energy estimate")

	return est, nil
}
