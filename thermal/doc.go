// Package thermal estimates finite-temperature observables with the
// stochastic finite-temperature Lanczos method (FTLM).
//
// 🚀 What is FTLM?
//
//	A thermal trace Tr[e^{-βH} O] over a huge Hilbert space is replaced by an
//	average over random seed vectors r. For each seed a short Lanczos
//	recursion (package lanczos) yields a k×k tridiagonal matrix whose
//	eigenpairs (eps_i, phi) approximate the spectrum as seen from r; the
//	weight of Ritz state i is phi[0,i]², its overlap with the seed.
//
// ✨ Estimators:
//   - EnergySample - one seed:  E = Σ e^{-β eps_i} eps_i phi0i² / Σ e^{-β eps_i} phi0i²
//   - Energy       - mean of EnergySample over Options.Samples seeds
//   - RDMSample    - one seed, spin-resolved one-body reduced density matrices
//     assembled from operator matrix elements between Krylov vectors
//   - RDMs         - mean of RDMSample over Options.Samples seeds
//
// Energy averages per-seed ratios, not numerator and denominator separately.
// At finite temperature that mean differs from Tr[e^{-βH}H]/Tr[e^{-βH}] by
// O(1/N): negligible for the large sectors FTLM is meant for, many standard
// errors on a few dozen states. At β = 0 there is no bias.
//
// Breakdowns (a seed that is numerically an eigenvector, a recursion that
// truncates below Options.MinSteps, or an underflowing partition sum) are
// reported as errors, never as a zero result. The stochastic estimators
// redraw on those errors (see IsRetryable) up to Options.MaxRetries times.
//
// ⚙️ Usage:
//
//	opts := thermal.DefaultEnergyOptions()
//	opts.Temperature = 0.5
//	est, err := thermal.Energy(ctx, model.Apply, model.Generator(rng), opts)
//	fmt.Println(est.Mean, "±", est.StdErr)
//
// Sampling can be spread over goroutines with Options.Workers; results are
// reduced in sample order so they agree with a serial run up to floating-point
// summation order.
package thermal
