// SPDX-License-Identifier: MIT

package thermal

import (
	"fmt"
	"math"

	"github.com/katalvlaran/ftlm/lanczos"
	"github.com/katalvlaran/ftlm/tridiag"
	"github.com/rs/zerolog"
)

// Defaults (single source of truth). The two breakdown thresholds differ:
// RDM estimates keep the whole basis and tolerate much smaller b[i].
const (
	DefaultTemperature = 1.0
	DefaultKB          = 1.0
	DefaultMaxSteps    = lanczos.DefaultMaxSteps
	DefaultEnergyMinB  = 1e-4
	DefaultRDMMinB     = 1e-9
	DefaultMinSteps    = 0
	DefaultEnergyNSamp = 30
	DefaultRDMNSamp    = 1
	DefaultMaxRetries  = 100
	DefaultWorkers     = 1
)

// Options configures every estimator in the package. All parameters are
// per call; there is no global state.
//
// Fields:
//   - Temperature     - T > 0; +Inf selects the β = 0 limit.
//   - KB              - Boltzmann constant (natural units: 1).
//   - MaxSteps        - Krylov size bound m (≥ 2).
//   - MinB            - breakdown threshold on the Lanczos b[i] (> 0).
//   - MinSteps        - truncations with k < MinSteps are rejected, k == MinSteps
//     is kept (0 disables); applied to both energy and RDM estimates.
//     The default is 0: a degenerate spectrum caps every Krylov space at its
//     number of distinct levels, which may be far below N.
//   - Samples         - number of accepted seeds for Energy / RDMs (≥ 1).
//   - MaxRetries      - rejected draws tolerated per stochastic call (≥ 0).
//   - Norb            - RDM dimension (RDM estimators only, ≥ 1).
//   - Workers         - goroutines for stochastic sampling (≤ 1 means serial).
//   - Reorthogonalize - full Gram-Schmidt in the Lanczos recursion.
//   - Solver          - tridiagonal eigensolver backend.
//   - Norm            - norm used by the recursion; nil means Euclidean.
//   - Logger          - receives per-draw debug events and per-call summaries.
type Options struct {
	Temperature     float64
	KB              float64
	MaxSteps        int
	MinB            float64
	MinSteps        int
	Samples         int
	MaxRetries      int
	Norb            int
	Workers         int
	Reorthogonalize bool
	Solver          tridiag.Solver
	Norm            lanczos.NormFunc
	Logger          zerolog.Logger
}

// DefaultEnergyOptions returns the energy-estimator defaults:
// T=1, kB=1, m=60, MinB=1e-4, 30 samples, 100 retries.
func DefaultEnergyOptions() Options {
	return Options{
		Temperature: DefaultTemperature,
		KB:          DefaultKB,
		MaxSteps:    DefaultMaxSteps,
		MinB:        DefaultEnergyMinB,
		MinSteps:    DefaultMinSteps,
		Samples:     DefaultEnergyNSamp,
		MaxRetries:  DefaultMaxRetries,
		Workers:     DefaultWorkers,
		Solver:      tridiag.DefaultSolver,
		Norm:        lanczos.Euclidean,
		Logger:      zerolog.Nop(),
	}
}

// DefaultRDMOptions returns the RDM-estimator defaults for norb orbitals:
// as DefaultEnergyOptions but MinB=1e-9 and a single sample.
func DefaultRDMOptions(norb int) Options {
	o := DefaultEnergyOptions()
	o.MinB = DefaultRDMMinB
	o.Samples = DefaultRDMNSamp
	o.Norb = norb

	return o
}

// Beta returns 1/(kB·T).
func (o Options) Beta() float64 {
	return 1 / (o.KB * o.Temperature)
}

// Validate reports the first invalid parameter used by Energy, wrapped in
// ErrInvalidConfig. RDM estimators additionally require Norb ≥ 1.
func (o Options) Validate() error {
	return o.validateStochastic(false)
}

// validateSample checks the parameters used by a single-sample estimator.
func (o Options) validateSample(needNorb bool) error {
	switch {
	case math.IsNaN(o.Temperature) || o.Temperature <= 0:
		return fmt.Errorf("%w: temperature %g must be > 0", ErrInvalidConfig, o.Temperature)
	case math.IsNaN(o.KB) || math.IsInf(o.KB, 0) || o.KB <= 0:
		return fmt.Errorf("%w: kB %g must be finite and > 0", ErrInvalidConfig, o.KB)
	case o.MaxSteps < 2:
		return fmt.Errorf("%w: max steps %d must be >= 2", ErrInvalidConfig, o.MaxSteps)
	case o.MinSteps < 0:
		return fmt.Errorf("%w: min steps %d must be >= 0", ErrInvalidConfig, o.MinSteps)
	case math.IsNaN(o.MinB) || math.IsInf(o.MinB, 0) || o.MinB <= 0:
		return fmt.Errorf("%w: breakdown threshold %g must be finite and > 0", ErrInvalidConfig, o.MinB)
	case needNorb && o.Norb < 1:
		return fmt.Errorf("%w: norb %d must be >= 1", ErrInvalidConfig, o.Norb)
	}
	if _, err := tridiag.ParseSolver(o.Solver.String()); err != nil {
		return fmt.Errorf("%w: solver %d: %w", ErrInvalidConfig, int(o.Solver), err)
	}

	return nil
}

// validateStochastic adds the sampling parameters to validateSample.
func (o Options) validateStochastic(needNorb bool) error {
	if err := o.validateSample(needNorb); err != nil {
		return err
	}
	switch {
	case o.Samples < 1:
		return fmt.Errorf("%w: samples %d must be >= 1", ErrInvalidConfig, o.Samples)
	case o.MaxRetries < 0:
		return fmt.Errorf("%w: max retries %d must be >= 0", ErrInvalidConfig, o.MaxRetries)
	}

	return nil
}

// lanczosOptions maps Options onto the recursion parameters.
// Reorthogonalization needs the basis, so it implies retention.
func (o Options) lanczosOptions(keepBasis bool) lanczos.Options {
	return lanczos.Options{
		MaxSteps:        o.MaxSteps,
		MinB:            o.MinB,
		MinSteps:        o.MinSteps,
		KeepBasis:       keepBasis || o.Reorthogonalize,
		Reorthogonalize: o.Reorthogonalize,
		Norm:            o.Norm,
	}
}
