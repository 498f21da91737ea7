// Package hubbard provides a one-dimensional Fermi-Hubbard chain as a
// ready-made collaborator for the thermal estimators:
//
//	H = -t Σ_{⟨ij⟩,σ} (c†_{iσ} c_{jσ} + h.c.) + U Σ_i n_{i↑} n_{i↓}
//
// The Hilbert space is the fixed (NUp, NDown) sector. Each spin species is
// an ascending list of occupation bit strings (bit i = site i); the
// product state (ia, ib) lives at index ia·DimDown + ib.
//
// Fermion signs follow the ordering c†_{0↑} … c†_{L-1,↑} c†_{0↓} … c†_{L-1,↓}
// (alpha before beta, ascending sites). A same-spin hop i←j therefore picks up
// (-1)^(occupied sites strictly between i and j).
//
// Model.Apply matches lanczos.Operator, Model.OneBody matches
// thermal.ElementFunc and Model.Generator matches thermal.Generator.
package hubbard
