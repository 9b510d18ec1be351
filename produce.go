package asyncfilters

import (
	"context"
	"iter"
)

// ProducerFunc returns a channel of elements for an asynchronous stream.
// The producer must close the channel when it is done, and must stop sending once ctx is done.
// A producer reports failure by calling cancel with the cause before closing the channel.
type ProducerFunc[T any] func(ctx context.Context, cancel context.CancelCauseFunc) <-chan T

// AsyncSource is implemented by externally-driven producers of any element type.
// ProducerFunc implements it for every T.
type AsyncSource interface {
	Items(ctx context.Context, cancel context.CancelCauseFunc) <-chan any
}

// Produce returns a producer that produces the elements of the given slices, in order.
func Produce[T any](slices ...[]T) ProducerFunc[T] {
	return func(ctx context.Context, _ context.CancelCauseFunc) <-chan T {
		outCh := make(chan T)

		go func() {
			defer close(outCh)

			for _, slice := range slices {
				for _, elem := range slice {
					select {
					case outCh <- elem:

					case <-ctx.Done():
						return
					}
				}
			}
		}()

		return outCh
	}
}

// ProduceChannel returns a producer that produces the elements received through the given channels, in order.
func ProduceChannel[T any](channels ...<-chan T) ProducerFunc[T] {
	return func(ctx context.Context, _ context.CancelCauseFunc) <-chan T {
		outCh := make(chan T)

		go func() {
			defer close(outCh)

			for _, ch := range channels {
				for {
					var (
						elem T
						ok   bool
					)

					select {
					case elem, ok = <-ch:

					case <-ctx.Done():
						return
					}

					if !ok {
						break
					}

					select {
					case outCh <- elem:

					case <-ctx.Done():
						return
					}
				}
			}
		}()

		return outCh
	}
}

// ProduceSeq returns a producer that drives seq from its own goroutine.
func ProduceSeq[T any](seq iter.Seq[T]) ProducerFunc[T] {
	return ProduceFunc(func(_ context.Context, emit func(T) bool) error {
		for elem := range seq {
			if !emit(elem) {
				return nil
			}
		}

		return nil
	})
}

// ProduceFunc returns a producer backed by a generator function.
// The generator hands each element to emit, and must return once emit returns false.
// A non-nil error returned by the generator cancels the stream with that error as the cause.
func ProduceFunc[T any](gen func(ctx context.Context, emit func(T) bool) error) ProducerFunc[T] {
	return func(ctx context.Context, cancel context.CancelCauseFunc) <-chan T {
		outCh := make(chan T)

		go func() {
			defer close(outCh)

			emit := func(elem T) bool {
				select {
				case outCh <- elem:
					return true

				case <-ctx.Done():
					return false
				}
			}

			if err := gen(ctx, emit); err != nil {
				cancel(err)
			}
		}()

		return outCh
	}
}

// Items implements AsyncSource.
func (prod ProducerFunc[T]) Items(ctx context.Context, cancel context.CancelCauseFunc) <-chan any {
	if anyProd, ok := any(prod).(ProducerFunc[any]); ok {
		return anyProd(ctx, cancel)
	}

	ch := prod(ctx, cancel)

	outCh := make(chan any)

	go func() {
		defer close(outCh)

		for elem := range ch {
			select {
			case outCh <- elem:

			case <-ctx.Done():
				return
			}
		}
	}()

	return outCh
}
