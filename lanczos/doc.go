// Package lanczos runs the symmetric Lanczos three-term recurrence on a
// caller-supplied linear operator.
//
// Starting from a seed vector v0 (normalized internally) it builds
//
//	a[i]   = ⟨v_i | H v_i⟩
//	w      = H v_i − a[i] v_i − b[i-1] v_{i-1}
//	b[i]   = ‖w‖,  v_{i+1} = w / b[i]
//
// for at most MaxSteps basis vectors. The coefficients describe the
// tridiagonal projection of H onto the Krylov space of the seed; see package
// tridiag for its eigendecomposition.
//
// Breakdown policy:
//   - b[0] < MinB: the seed is (numerically) an eigenvector. Run fails with
//     ErrImmediateBreakdown; draw another seed.
//   - b[i] < MinB for i > 0: the recursion truncates. The tentative b[i] is
//     discarded and the result keeps k = i+1 diagonal entries. Consumers must
//     use Result.Len(), never MaxSteps.
//   - truncation with k < MinSteps is reported as ErrEarlyTruncation, unless
//     k equals the vector dimension (the space was exhausted, the projection
//     is exact).
//
// Memory: O(N) with KeepBasis=false (three live vectors); O(k·N) otherwise.
package lanczos
