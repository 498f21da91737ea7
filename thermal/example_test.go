// SPDX-License-Identifier: MIT

package thermal_test

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/katalvlaran/ftlm/hubbard"
	"github.com/katalvlaran/ftlm/thermal"
)

// ExampleEnergySample evaluates the Hubbard dimer (t=1, U=4) from the
// doubly-occupied state on site 0. At infinite temperature the estimate is
// the seed's own energy ⟨v|H|v⟩ = U; at low temperature it approaches the
// ground-state energy (U - √(U²+16t²))/2.
func ExampleEnergySample() {
	m, err := hubbard.New(hubbard.Config{Sites: 2, NUp: 1, NDown: 1, T: 1, U: 4})
	if err != nil {
		fmt.Println(err)
		return
	}
	seed := []float64{1, 0, 0, 0}

	for _, temp := range []float64{math.Inf(1), 0.01} {
		opts := thermal.DefaultEnergyOptions()
		opts.Temperature = temp
		e, err := thermal.EnergySample(m.Apply, seed, opts)
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Printf("T=%v E=%.4f\n", temp, e)
	}

	// Output:
	// T=+Inf E=4.0000
	// T=0.01 E=-0.8284
}

// ExampleRDMs estimates the spin-resolved occupations of a half-filled
// four-site ring. The traces are exact per sample.
func ExampleRDMs() {
	m, err := hubbard.New(hubbard.Config{Sites: 4, NUp: 2, NDown: 2, T: 1, U: 4, Periodic: true})
	if err != nil {
		fmt.Println(err)
		return
	}

	opts := thermal.DefaultRDMOptions(m.Sites())
	opts.Temperature = 0.5
	opts.Samples = 4
	opts.MaxSteps = 20
	opts.Reorthogonalize = true
	est, err := thermal.RDMs(context.Background(), m.OneBody, m.Apply, m.Generator(rand.New(rand.NewPCG(1, 1))), opts)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("N_up=%.6f N_down=%.6f samples=%d\n", est.Alpha.Trace(), est.Beta.Trace(), est.Accepted)

	// Output:
	// N_up=2.000000 N_down=2.000000 samples=4
}
