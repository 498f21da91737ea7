// Package ftlm is a toolkit for the stochastic finite-temperature Lanczos
// method: thermal expectation values of large sparse Hamiltonians estimated
// from short Krylov recursions started at random vectors.
//
// 🚀 What is in the box?
//
//	• Tridiagonal eigensolvers: gonum LAPACK or cyclic Jacobi
//	• Lanczos recursion: breakdown detection, optional full reorthogonalization
//	• Thermal energy: single seed and stochastic average
//	• Spin-resolved one-body RDMs: single seed and stochastic average
//	• A Fermi-Hubbard chain to drive all of the above
//	• The ftlm command line tool
//
// ✨ Why FTLM?
//
//   - Memory O(N) per seed for energies; no full diagonalization
//   - Converges to the canonical value as the sector grows; the per-seed
//     energy ratio is biased by O(1/N) at finite T, so small sectors need
//     exact diagonalization instead
//   - Embarrassingly parallel over seeds
//
// Everything is organized under these subpackages:
//
//	matrix/  - dense row-major matrices, validators, Jacobi eigensolver
//	tridiag/ - eigendecomposition of the Lanczos tridiagonal matrix
//	lanczos/ - the three-term recurrence on a caller-supplied operator
//	thermal/ - energy and RDM estimators, retry and worker policy
//	hubbard/ - Hubbard Hamiltonian, one-body elements, random seeds
//	cmd/ftlm - cobra CLI with YAML configuration
//
// Quick ⚙️ example:
//
//	m, _ := hubbard.New(hubbard.Config{Sites: 8, NUp: 4, NDown: 4, T: 1, U: 4, Periodic: true})
//	opts := thermal.DefaultEnergyOptions()
//	opts.Temperature = 0.25
//	est, err := thermal.Energy(ctx, m.Apply, m.Generator(rng), opts)
//
// See each package's documentation for details.
package ftlm
