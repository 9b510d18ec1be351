package asyncfilters

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"reflect"
)

// Sequence is the uniform lazy sequence every filter consumes.
// Next returns (zero, false, nil) once the sequence is exhausted.
// A sequence is consumed once; after exhaustion it keeps reporting the end.
type Sequence interface {
	// Next returns the next item. For asynchronous sources this is a suspension point.
	Next(ctx context.Context) (any, bool, error)

	// Close releases the underlying source. It is safe to call more than once.
	Close() error
}

// Iterable returns a synchronous Sequence over value.
// Slices, arrays, iter.Seq functions, maps (keys in ascending order), strings (per rune),
// groups and existing sequences are accepted. Asynchronous sources yield ErrAsyncSource.
func Iterable(value any) (Sequence, error) {
	switch v := value.(type) {
	case Sequence:
		return v, nil
	case []any:
		return &sliceSeq{items: v}, nil
	case Group:
		return &sliceSeq{items: []any{v.Grouper, v.List}}, nil
	case iter.Seq[any]:
		return &pullSeq{seq: v}, nil
	case string:
		return runeSeq(v), nil
	case AsyncSource:
		return nil, ErrAsyncSource
	case nil, Undefined:
		return nil, fmt.Errorf("%w: %s", ErrNotIterable, repr(v))
	}

	rv := reflect.ValueOf(value)

	switch rv.Kind() { //nolint:exhaustive // remaining kinds are not iterable
	case reflect.Slice, reflect.Array:
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}

		return &sliceSeq{items: items}, nil

	case reflect.Map:
		keys := make([]any, 0, rv.Len())
		for _, key := range rv.MapKeys() {
			keys = append(keys, key.Interface())
		}

		if err := SortStable(keys, Compare); err != nil {
			return nil, err
		}

		return &sliceSeq{items: keys}, nil

	case reflect.Func:
		if rv.Type().CanSeq() {
			return &pullSeq{seq: reflectSeq(rv)}, nil
		}

	case reflect.Pointer:
		if !rv.IsNil() && rv.Elem().Kind() == reflect.Array {
			return Iterable(rv.Elem().Interface())
		}
	}

	return nil, fmt.Errorf("%w: %T", ErrNotIterable, value)
}

// Iterate is the async adapter: it returns a Sequence over value suited to the render's mode.
// In asynchronous mode an AsyncSource is consumed one item at a time, suspending on each fetch.
func (rc *RenderContext) Iterate(value any) (Sequence, error) {
	if src, ok := value.(AsyncSource); ok && rc.Mode == ModeAsync {
		return &producerSeq{src: src}, nil
	}

	return Iterable(value)
}

// sliceSeq walks an in-memory slice eagerly, never suspending.
type sliceSeq struct {
	items []any
	pos   int
}

func (s *sliceSeq) Next(ctx context.Context) (any, bool, error) {
	if contextDone(ctx) {
		return nil, false, context.Cause(ctx)
	}

	if s.pos >= len(s.items) {
		return nil, false, nil
	}

	item := s.items[s.pos]
	s.pos++

	return item, true, nil
}

func (s *sliceSeq) Close() error {
	s.pos = len(s.items)
	return nil
}

// pullSeq pulls from a synchronous iter.Seq on demand.
type pullSeq struct {
	seq  iter.Seq[any]
	next func() (any, bool)
	stop func()
	done bool
}

func (s *pullSeq) Next(ctx context.Context) (any, bool, error) {
	if contextDone(ctx) {
		return nil, false, context.Cause(ctx)
	}

	if s.done {
		return nil, false, nil
	}

	if s.next == nil {
		s.next, s.stop = iter.Pull(s.seq)
	}

	item, ok := s.next()
	if !ok {
		_ = s.Close()
	}

	return item, ok, nil
}

func (s *pullSeq) Close() error {
	s.done = true

	if s.stop != nil {
		s.stop()
	}

	return nil
}

// producerSeq adapts an AsyncSource. The producer is started on the first fetch,
// under a context derived from the one given to that fetch.
type producerSeq struct {
	src    AsyncSource
	ch     <-chan any
	ctx    context.Context //nolint:containedctx // the producer's lifetime spans several Next calls
	cancel context.CancelCauseFunc
	done   bool
}

func (s *producerSeq) Next(ctx context.Context) (any, bool, error) {
	if s.done {
		return nil, false, nil
	}

	if s.ch == nil {
		s.ctx, s.cancel = context.WithCancelCause(ctx)
		s.ch = s.src.Items(s.ctx, s.cancel)
	}

	select {
	case item, ok := <-s.ch:
		if ok {
			return item, true, nil
		}

		err := context.Cause(s.ctx)
		_ = s.Close()

		if err != nil && !errors.Is(err, ErrShortCircuit) {
			return nil, false, err
		}

		return nil, false, nil

	case <-ctx.Done():
		_ = s.Close()
		return nil, false, context.Cause(ctx)
	}
}

func (s *producerSeq) Close() error {
	s.done = true

	if s.cancel != nil {
		s.cancel(ErrShortCircuit)
	}

	return nil
}

func runeSeq(s string) Sequence {
	items := make([]any, 0, len(s))
	for _, r := range s {
		items = append(items, string(r))
	}

	return &sliceSeq{items: items}
}

func reflectSeq(rv reflect.Value) iter.Seq[any] {
	return func(yield func(any) bool) {
		for v := range rv.Seq() {
			if !yield(v.Interface()) {
				return
			}
		}
	}
}
