// SPDX-License-Identifier: MIT

package hubbard

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"math/rand/v2"

	"github.com/katalvlaran/ftlm/matrix"
)

var (
	// ErrInvalidModel indicates an unusable Config.
	ErrInvalidModel = errors.New("hubbard: invalid model")

	// ErrDimensionMismatch indicates a state vector whose length differs from Dim.
	ErrDimensionMismatch = errors.New("hubbard: vector length differs from Hilbert-space dimension")

	// ErrTooLarge indicates Dense was asked for more than MaxDenseDim states.
	ErrTooLarge = errors.New("hubbard: Hilbert space too large for a dense matrix")
)

const (
	// MaxSites bounds the chain length (occupations are uint64 bit strings).
	MaxSites = 62

	// MaxDenseDim bounds the dimension accepted by Dense.
	MaxDenseDim = 4096
)

// Config describes a chain.
type Config struct {
	Sites    int     // L ≥ 1
	NUp      int     // 0 ≤ NUp ≤ L
	NDown    int     // 0 ≤ NDown ≤ L
	T        float64 // hopping amplitude
	U        float64 // on-site repulsion
	Periodic bool    // add the bond (L-1, 0) when L > 2
}

// Model is an immutable Hubbard chain; all methods are safe for concurrent use.
type Model struct {
	cfg   Config
	up    []uint64
	down  []uint64
	upIdx map[uint64]int
	dnIdx map[uint64]int
	bonds [][2]int
	dimDn int
}

// New validates cfg and enumerates both spin sectors.
func New(cfg Config) (*Model, error) {
	switch {
	case cfg.Sites < 1 || cfg.Sites > MaxSites:
		return nil, fmt.Errorf("%w: sites %d not in [1, %d]", ErrInvalidModel, cfg.Sites, MaxSites)
	case cfg.NUp < 0 || cfg.NUp > cfg.Sites:
		return nil, fmt.Errorf("%w: nup %d not in [0, %d]", ErrInvalidModel, cfg.NUp, cfg.Sites)
	case cfg.NDown < 0 || cfg.NDown > cfg.Sites:
		return nil, fmt.Errorf("%w: ndown %d not in [0, %d]", ErrInvalidModel, cfg.NDown, cfg.Sites)
	case math.IsNaN(cfg.T) || math.IsInf(cfg.T, 0):
		return nil, fmt.Errorf("%w: t=%g", ErrInvalidModel, cfg.T)
	case math.IsNaN(cfg.U) || math.IsInf(cfg.U, 0):
		return nil, fmt.Errorf("%w: U=%g", ErrInvalidModel, cfg.U)
	}

	m := &Model{cfg: cfg}
	m.up, m.upIdx = combinations(cfg.Sites, cfg.NUp)
	m.down, m.dnIdx = combinations(cfg.Sites, cfg.NDown)
	m.dimDn = len(m.down)
	for i := 0; i+1 < cfg.Sites; i++ {
		m.bonds = append(m.bonds, [2]int{i, i + 1})
	}
	if cfg.Periodic && cfg.Sites > 2 {
		m.bonds = append(m.bonds, [2]int{cfg.Sites - 1, 0})
	}

	return m, nil
}

// combinations lists all L-bit strings with n bits set, ascending
// (Gosper's hack), and their positions.
func combinations(l, n int) ([]uint64, map[uint64]int) {
	var (
		out []uint64
		idx = make(map[uint64]int)
	)
	if n == 0 {
		return []uint64{0}, map[uint64]int{0: 0}
	}
	limit := uint64(1) << uint(l)
	for s := uint64(1)<<uint(n) - 1; s < limit; {
		idx[s] = len(out)
		out = append(out, s)
		c := s & -s
		r := s + c
		s = (((r ^ s) >> 2) / c) | r
	}

	return out, idx
}

// Config returns the model parameters.
func (m *Model) Config() Config { return m.cfg }

// Sites returns L, the RDM dimension.
func (m *Model) Sites() int { return m.cfg.Sites }

// Dim returns the sector dimension C(L, NUp)·C(L, NDown).
func (m *Model) Dim() int { return len(m.up) * m.dimDn }

// hop applies c†_i c_j to s. ok is false when j is empty or i is occupied
// (i != j).
func hop(s uint64, i, j int) (out uint64, sign float64, ok bool) {
	bi, bj := uint64(1)<<uint(i), uint64(1)<<uint(j)
	if s&bj == 0 {
		return 0, 0, false
	}
	if i == j {
		return s, 1, true
	}
	if s&bi != 0 {
		return 0, 0, false
	}
	lo, hi := min(i, j), max(i, j)
	between := s & ((uint64(1)<<uint(hi) - 1) &^ (uint64(1)<<uint(lo+1) - 1))
	sign = 1
	if bits.OnesCount64(between)&1 == 1 {
		sign = -1
	}

	return s ^ bi ^ bj, sign, true
}

// Apply returns H·v, or nil when len(v) != Dim (lanczos.Run reports that as
// a dimension mismatch). Use Check to get the error directly.
func (m *Model) Apply(v []float64) []float64 {
	if len(v) != m.Dim() {
		return nil
	}
	out := make([]float64, len(v))
	t, u := m.cfg.T, m.cfg.U

	var (
		ia, ib, k int
		x, sgn    float64
		s         uint64
		ok        bool
	)
	for ia = range m.up {
		for ib = range m.down {
			k = ia*m.dimDn + ib
			if x = v[k]; x == 0 {
				continue
			}
			if u != 0 {
				out[k] += u * float64(bits.OnesCount64(m.up[ia]&m.down[ib])) * x
			}
			if t == 0 {
				continue
			}
			for _, b := range m.bonds {
				for _, d := range [2][2]int{{b[0], b[1]}, {b[1], b[0]}} {
					if s, sgn, ok = hop(m.up[ia], d[0], d[1]); ok {
						out[m.upIdx[s]*m.dimDn+ib] -= t * sgn * x
					}
					if s, sgn, ok = hop(m.down[ib], d[0], d[1]); ok {
						out[ia*m.dimDn+m.dnIdx[s]] -= t * sgn * x
					}
				}
			}
		}
	}

	return out
}

// Check reports ErrDimensionMismatch when len(v) != Dim.
func (m *Model) Check(v []float64) error {
	if len(v) != m.Dim() {
		return fmt.Errorf("len=%d want %d: %w", len(v), m.Dim(), ErrDimensionMismatch)
	}

	return nil
}

// OneBody returns the spin-resolved one-body matrix elements
//
//	alpha[p][q] = ⟨bra| c†_{p↑} c_{q↑} |ket⟩,  beta[p][q] = ⟨bra| c†_{p↓} c_{q↓} |ket⟩
//
// as L×L matrices. tr(alpha) = NUp·⟨bra|ket⟩ and tr(beta) = NDown·⟨bra|ket⟩.
//
// Complexity: O(Dim·L²).
func (m *Model) OneBody(bra, ket []float64) (alpha, beta *matrix.Dense, err error) {
	if err = m.Check(bra); err != nil {
		return nil, nil, fmt.Errorf("hubbard: OneBody: bra: %w", err)
	}
	if err = m.Check(ket); err != nil {
		return nil, nil, fmt.Errorf("hubbard: OneBody: ket: %w", err)
	}
	l := m.cfg.Sites
	if alpha, err = matrix.NewDense(l, l); err != nil {
		return nil, nil, err
	}
	if beta, err = matrix.NewDense(l, l); err != nil {
		return nil, nil, err
	}

	var (
		ia, ib, p, q, k int
		x, sgn          float64
		s               uint64
		ok              bool
	)
	for ia = range m.up {
		for ib = range m.down {
			k = ia*m.dimDn + ib
			if x = ket[k]; x == 0 {
				continue
			}
			for p = 0; p < l; p++ {
				arow, brow := alpha.RawRow(p), beta.RawRow(p)
				for q = 0; q < l; q++ {
					if s, sgn, ok = hop(m.up[ia], p, q); ok {
						arow[q] += sgn * bra[m.upIdx[s]*m.dimDn+ib] * x
					}
					if s, sgn, ok = hop(m.down[ib], p, q); ok {
						brow[q] += sgn * bra[ia*m.dimDn+m.dnIdx[s]] * x
					}
				}
			}
		}
	}

	return alpha, beta, nil
}

// Generator returns a seed source drawing i.i.d. standard normal entries
// from rng. The returned function is not safe for concurrent use.
func (m *Model) Generator(rng *rand.Rand) func() []float64 {
	n := m.Dim()

	return func() []float64 {
		v := make([]float64, n)
		for i := range v {
			v[i] = rng.NormFloat64()
		}

		return v
	}
}

// Dense builds the explicit Hamiltonian column by column via Apply.
// Intended for verification on small sectors.
func (m *Model) Dense() (*matrix.Dense, error) {
	n := m.Dim()
	if n > MaxDenseDim {
		return nil, fmt.Errorf("hubbard: Dense: dim=%d > %d: %w", n, MaxDenseDim, ErrTooLarge)
	}
	h, err := matrix.NewDense(n, n)
	if err != nil {
		return nil, err
	}
	e := make([]float64, n)
	for j := 0; j < n; j++ {
		e[j] = 1
		col := m.Apply(e)
		e[j] = 0
		for i, v := range col {
			h.RawRow(i)[j] = v
		}
	}

	return h, nil
}
