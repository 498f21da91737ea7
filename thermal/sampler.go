// SPDX-License-Identifier: MIT

package thermal

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Generator draws a fresh random seed vector on each call. Every call must
// return a new slice of the Hilbert-space dimension; the estimators never
// call it concurrently.
type Generator func() []float64

// drawFunc evaluates one single-sample estimate for a seed.
type drawFunc[T any] func(seed []float64) (T, error)

// sampleSet holds accepted estimates in slot order.
type sampleSet[T any] struct {
	values   []T
	rejected int
}

// collect fills o.Samples slots with accepted draws.
//
// Implementation:
//   - Retryable failures (IsRetryable) trigger a redraw and are not charged
//     to the sample count; the total across slots is capped by o.MaxRetries.
//   - Anything else aborts the call.
//   - With o.Workers > 1 slots are evaluated by an errgroup limited to
//     o.Workers goroutines; gen is serialized by a mutex. Because a rejection
//     depends only on its seed, the accepted seeds are the same as in a serial
//     run; only their slot assignment may differ.
func collect[T any](ctx context.Context, gen Generator, o Options, draw drawFunc[T]) (*sampleSet[T], error) {
	if gen == nil {
		return nil, fmt.Errorf("%w: nil generator", ErrInvalidConfig)
	}
	if o.Workers > 1 {
		return collectParallel(ctx, gen, o, draw)
	}

	set := &sampleSet[T]{values: make([]T, o.Samples)}
	var (
		v    T
		err  error
		slot int
	)
	for slot < o.Samples {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		v, err = draw(gen())
		if err != nil {
			if !IsRetryable(err) {
				return nil, fmt.Errorf("sample %d: %w", slot, err)
			}
			set.rejected++
			o.Logger.Debug().Int("sample", slot).Int("rejected", set.rejected).AnErr("reason", err).Msg("seed rejected")
			if set.rejected > o.MaxRetries {
				return nil, fmt.Errorf("%w after %d rejected draws: %w", ErrRetriesExhausted, set.rejected, err)
			}
			continue
		}
		set.values[slot] = v
		slot++
	}

	return set, nil
}

func collectParallel[T any](ctx context.Context, gen Generator, o Options, draw drawFunc[T]) (*sampleSet[T], error) {
	var (
		mu       sync.Mutex
		rejected atomic.Int64
		values   = make([]T, o.Samples)
	)
	next := func() []float64 {
		mu.Lock()
		defer mu.Unlock()

		return gen()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.Workers)
	for slot := 0; slot < o.Samples; slot++ {
		g.Go(func() error {
			for {
				if err := gctx.Err(); err != nil {
					return err
				}
				v, err := draw(next())
				if err == nil {
					values[slot] = v

					return nil
				}
				if !IsRetryable(err) {
					return fmt.Errorf("sample %d: %w", slot, err)
				}
				n := rejected.Add(1)
				o.Logger.Debug().Int("sample", slot).Int64("rejected", n).AnErr("reason", err).Msg("seed rejected")
				if n > int64(o.MaxRetries) {
					return fmt.Errorf("%w after %d rejected draws: %w", ErrRetriesExhausted, n, err)
				}
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &sampleSet[T]{values: values, rejected: int(rejected.Load())}, nil
}
