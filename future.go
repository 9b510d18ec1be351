package asyncfilters

import (
	"context"
	"fmt"
)

// Awaitable is a value that becomes available later.
type Awaitable interface {
	Await(ctx context.Context) (any, error)
}

// Task is a computation that produces a value or an error.
type Task func(ctx context.Context) (any, error)

// Future is an Awaitable returning the same result every time it is awaited.
type Future func(ctx context.Context) (any, error)

type outcome struct {
	value any
	err   error
}

// Go starts task in its own goroutine and returns a Future for its result.
// A panic in task is turned into an error. An await whose ctx is done before the task
// finishes returns the ctx cause; later awaits still see the task's result.
func Go(ctx context.Context, task Task) Future {
	done := make(chan struct{})

	var res outcome

	go func() {
		defer close(done)

		defer res.recover()

		res.value, res.err = task(ctx)
	}()

	return func(ctx context.Context) (any, error) {
		select {
		case <-done:
			return res.value, res.err

		case <-ctx.Done():
			select {
			case <-done:
				return res.value, res.err
			default:
				return nil, context.Cause(ctx)
			}
		}
	}
}

// Resolved returns a Future that is already complete with v.
func Resolved(v any) Future {
	return func(context.Context) (any, error) {
		return v, nil
	}
}

// Await implements Awaitable.
func (f Future) Await(ctx context.Context) (any, error) {
	return f(ctx)
}

func (o *outcome) recover() {
	switch v := recover().(type) {
	case nil:
	case error:
		o.err = v
	default:
		o.err = fmt.Errorf("%+v", v)
	}
}
