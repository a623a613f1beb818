// Package batch runs a predicate over a slice in parallel and keeps the
// matching items in their original order.
package batch

import (
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultSequentialBelow is the batch size under which no goroutines are
// started
const DefaultSequentialBelow = 256

// Options controls how a batch is split across goroutines
type Options struct {
	// Workers bounds the number of goroutines; <= 0 means runtime.NumCPU()
	Workers int
	// SequentialBelow runs batches smaller than this on the calling goroutine
	SequentialBelow int
}

// Option mutates Options
type Option func(*Options)

// WithWorkers sets the number of worker goroutines
func WithWorkers(n int) Option {
	return func(o *Options) { o.Workers = n }
}

// WithSequentialBelow sets the sequential threshold
func WithSequentialBelow(n int) Option {
	return func(o *Options) { o.SequentialBelow = n }
}

// WithOptions replaces all options at once
func WithOptions(opts Options) Option {
	return func(o *Options) { *o = opts }
}

// DefaultOptions returns one worker per CPU and the default threshold
func DefaultOptions() Options {
	return Options{Workers: runtime.NumCPU(), SequentialBelow: DefaultSequentialBelow}
}

func resolve(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.SequentialBelow < 0 {
		o.SequentialBelow = 0
	}
	return o
}

// Filter returns the items for which keep returns true
func Filter[T any](items []T, keep func(T) bool, opts ...Option) []T {
	out, _ := TryFilter(items, func(item T) (bool, error) {
		return keep(item), nil
	}, opts...)
	return out
}

// TryFilter returns the items for which keep returns true. The first error
// returned by keep aborts the batch and no partial result is returned.
func TryFilter[T any](items []T, keep func(T) (bool, error), opts ...Option) ([]T, error) {
	if len(items) == 0 {
		return nil, nil
	}

	o := resolve(opts)
	matched := make([]bool, len(items))

	if len(items) < o.SequentialBelow || o.Workers == 1 {
		for i, item := range items {
			ok, err := keep(item)
			if err != nil {
				return nil, err
			}
			matched[i] = ok
		}
		return collect(items, matched), nil
	}

	// Calculate batch size for each worker
	batchSize := (len(items) + o.Workers - 1) / o.Workers
	slog.Debug("batch fan-out", "items", len(items), "workers", o.Workers, "batch_size", batchSize)

	var g errgroup.Group
	g.SetLimit(o.Workers)
	for start := 0; start < len(items); start += batchSize {
		start := start // per-iteration copy (pre-Go 1.22 loop semantics)
		end := start + batchSize
		if end > len(items) {
			end = len(items)
		}

		g.Go(func() error {
			for j := start; j < end; j++ {
				ok, err := keep(items[j])
				if err != nil {
					return err
				}
				matched[j] = ok
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return collect(items, matched), nil
}

func collect[T any](items []T, matched []bool) []T {
	out := make([]T, 0, len(items))
	for i, ok := range matched {
		if ok {
			out = append(out, items[i])
		}
	}
	return out
}
