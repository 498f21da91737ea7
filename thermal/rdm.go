// SPDX-License-Identifier: MIT

package thermal

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/ftlm/lanczos"
	"github.com/katalvlaran/ftlm/matrix"
	"github.com/katalvlaran/ftlm/tridiag"
)

const (
	opRDMSample = "thermal.RDMSample"
	opRDMs      = "thermal.RDMs"
)

// ElementFunc returns the spin-resolved one-body matrix elements
// ⟨bra| c†_{iσ} c_{jσ} |ket⟩ as two norb×norb matrices (σ = α, β).
// It must be bilinear in (bra, ket) and free of side effects; the stochastic
// estimators may call it from several goroutines.
type ElementFunc func(bra, ket []float64) (alpha, beta *matrix.Dense, err error)

// RDM is a pair of spin-resolved one-body reduced density matrices.
type RDM struct {
	Alpha *matrix.Dense
	Beta  *matrix.Dense
}

// Trace returns tr(Alpha) + tr(Beta), the thermal particle number.
func (r *RDM) Trace() float64 {
	return r.Alpha.Trace() + r.Beta.Trace()
}

// RDMEstimate is the result of a stochastic RDM estimate.
type RDMEstimate struct {
	RDM
	Accepted int
	Rejected int
}

// RDMSample returns the FTLM one-body RDMs seen from one seed:
//
//	rdm = Σ_{i,j,p,q} c_i c_j phi_pi phi_qj / Z · elem(v_p, v_q)
//	c_i = e^{-β eps_i / 2} phi0i,  Z = Σ_i c_i²
//
// where v_p are the Lanczos basis vectors.
//
// Implementation:
//   - Stage 1: Lanczos with a retained basis; k = actual length.
//   - Stage 2: tridiagonal eigendecomposition, weights c_i shifted by the
//     lowest Ritz value (the shift cancels against Z).
//   - Stage 3: the double sum factorizes through w_p = Σ_i c_i phi_pi, so
//     rdm = Σ_{p,q} w_p w_q / Z · elem(v_p, v_q).
//
// Errors:
//   - ErrInvalidConfig (wrapped) for bad options.
//   - lanczos.ErrImmediateBreakdown, lanczos.ErrEarlyTruncation, ErrPartitionUnderflow (retryable).
//   - ErrDimensionMismatch when elem returns a non norb×norb matrix.
//   - elem, operator and solver failures, wrapped.
//
// Complexity:
//   - k operator applications plus k² element evaluations.
func RDMSample(elem ElementFunc, op lanczos.Operator, seed []float64, opts Options) (*RDM, error) {
	if err := opts.validateSample(true); err != nil {
		return nil, fmt.Errorf("%s: %w", opRDMSample, err)
	}

	return rdmSample(elem, op, seed, opts)
}

func rdmSample(elem ElementFunc, op lanczos.Operator, seed []float64, opts Options) (*RDM, error) {
	if elem == nil {
		return nil, fmt.Errorf("%s: %w: nil element function", opRDMSample, ErrInvalidConfig)
	}
	res, err := lanczos.Run(op, seed, opts.lanczosOptions(true))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opRDMSample, err)
	}
	spec, err := tridiag.Solve(res.A, res.B, tridiag.WithSolver(opts.Solver))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opRDMSample, err)
	}

	k := res.Len()
	var (
		beta = opts.Beta()
		e0   = spec.Values[0]
		c    = make([]float64, k)
		w    = make([]float64, k)
		z    float64
		i, p int
	)
	for i = 0; i < k; i++ {
		c[i] = math.Exp(-beta*(spec.Values[i]-e0)/2) * spec.Component(0, i)
		z += c[i] * c[i]
	}
	if z == 0 || math.IsNaN(z) || math.IsInf(z, 0) {
		return nil, fmt.Errorf("%s: Z=%g: %w", opRDMSample, z, ErrPartitionUnderflow)
	}
	for p = 0; p < k; p++ {
		for i = 0; i < k; i++ {
			w[p] += c[i] * spec.Component(p, i)
		}
	}

	out, err := newRDM(opts.Norb)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opRDMSample, err)
	}
	for p = 0; p < k; p++ {
		for q := 0; q < k; q++ {
			ea, eb, err := elem(res.Basis[p], res.Basis[q])
			if err != nil {
				return nil, fmt.Errorf("%s: element (%d,%d): %w", opRDMSample, p, q, err)
			}
			if err = out.addScaled(w[p]*w[q]/z, ea, eb); err != nil {
				return nil, fmt.Errorf("%s: element (%d,%d): %w", opRDMSample, p, q, err)
			}
		}
	}

	return out, nil
}

// RDMs averages RDMSample over opts.Samples random seeds drawn from gen.
// Retry semantics match Energy.
func RDMs(ctx context.Context, elem ElementFunc, op lanczos.Operator, gen Generator, opts Options) (*RDMEstimate, error) {
	if err := opts.validateStochastic(true); err != nil {
		return nil, fmt.Errorf("%s: %w", opRDMs, err)
	}

	set, err := collect(ctx, gen, opts, func(seed []float64) (*RDM, error) {
		return rdmSample(elem, op, seed, opts)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opRDMs, err)
	}

	sum, err := newRDM(opts.Norb)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opRDMs, err)
	}
	for _, r := range set.values {
		if err = sum.addScaled(1, r.Alpha, r.Beta); err != nil {
			return nil, fmt.Errorf("%s: %w", opRDMs, err)
		}
	}
	n := float64(len(set.values))
	if err = sum.Alpha.Scale(1 / n); err != nil {
		return nil, fmt.Errorf("%s: %w", opRDMs, err)
	}
	if err = sum.Beta.Scale(1 / n); err != nil {
		return nil, fmt.Errorf("%s: %w", opRDMs, err)
	}
	opts.Logger.Info().
		Float64("temperature", opts.Temperature).
		Int("samples", len(set.values)).
		Int("rejected", set.rejected).
		Float64("particles", sum.Trace()).
		Msg("rdm estimate")

	return &RDMEstimate{RDM: *sum, Accepted: len(set.values), Rejected: set.rejected}, nil
}

func newRDM(norb int) (*RDM, error) {
	a, err := matrix.NewDense(norb, norb)
	if err != nil {
		return nil, err
	}
	b, err := matrix.NewDense(norb, norb)
	if err != nil {
		return nil, err
	}

	return &RDM{Alpha: a, Beta: b}, nil
}

// addScaled accumulates s·(ea, eb) after checking both shapes.
func (r *RDM) addScaled(s float64, ea, eb *matrix.Dense) error {
	norb := r.Alpha.Rows()
	for _, e := range []*matrix.Dense{ea, eb} {
		if e == nil || e.Rows() != norb || e.Cols() != norb {
			return ErrDimensionMismatch
		}
	}
	if err := r.Alpha.AddScaled(s, ea); err != nil {
		return err
	}

	return r.Beta.AddScaled(s, eb)
}
