package asyncfilters

import (
	"context"
	"errors"
)

// ConsumerFunc consumes element elem.
// The index is the 0-based index of elem, in the order produced by the sequence.
type ConsumerFunc func(ctx context.Context, elem any, index uint64) error

// AccumulatorFunc folds element elem into the accumulator acc, returning acc, or a new accumulator.
type AccumulatorFunc[A any] func(ctx context.Context, elem any, index uint64, acc A) (A, error)

// ErrShortCircuit is used to stop a producer once a consumer no longer needs its elements.
// It is never reported to callers.
var ErrShortCircuit = errors.New("short circuit")

// Each calls each for every element of seq, in order, then closes seq.
// It stops at the first error returned by seq or each.
func Each(ctx context.Context, seq Sequence, each ConsumerFunc) error {
	defer seq.Close() //nolint:errcheck // closing only releases the source

	index := uint64(0)

	for {
		elem, ok, err := seq.Next(ctx)
		if err != nil {
			return err
		}

		if !ok {
			return nil
		}

		if err := each(ctx, elem, index); err != nil {
			return err
		}

		index++
	}
}

// Reduce folds every element of seq into acc using reduce, returning the final accumulator.
// On error the zero accumulator is returned, so callers never see a partial result.
func Reduce[A any](ctx context.Context, seq Sequence, acc A, reduce AccumulatorFunc[A]) (A, error) {
	err := Each(ctx, seq, func(ctx context.Context, elem any, index uint64) error {
		var err error
		acc, err = reduce(ctx, elem, index, acc)

		return err
	})
	if err != nil {
		var zero A
		return zero, err
	}

	return acc, nil
}

// Drain materializes seq into a slice, preserving order.
func Drain(ctx context.Context, seq Sequence) ([]any, error) {
	return Reduce(ctx, seq, []any{}, func(_ context.Context, elem any, _ uint64, acc []any) ([]any, error) {
		return append(acc, elem), nil
	})
}

// First returns the first element of seq and closes it without reading further.
// ok is false if seq is empty.
func First(ctx context.Context, seq Sequence) (elem any, ok bool, err error) {
	defer seq.Close() //nolint:errcheck // closing only releases the source

	elem, ok, err = seq.Next(ctx)
	if err != nil {
		return nil, false, err
	}

	return elem, ok, nil
}

// Count returns the number of elements in seq.
func Count(ctx context.Context, seq Sequence) (uint64, error) {
	return Reduce(ctx, seq, uint64(0), func(_ context.Context, _ any, _ uint64, acc uint64) (uint64, error) {
		return acc + 1, nil
	})
}
