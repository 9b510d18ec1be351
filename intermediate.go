package asyncfilters

import (
	"context"

	"golang.org/x/exp/slices"
)

// MapperFunc maps element elem to a new value.
// The index is the 0-based index of elem, in the order produced by the upstream sequence.
type MapperFunc func(ctx context.Context, elem any, index uint64) (any, error)

// PredicateFunc returns true if elem matches a predicate.
// The index is the 0-based index of elem, in the order produced by the upstream sequence.
type PredicateFunc func(ctx context.Context, elem any, index uint64) (bool, error)

// CompareFunc returns a negative number, zero or a positive number when a sorts before, equal to
// or after b, or an error if a and b cannot be ordered.
type CompareFunc[T any] func(a T, b T) (int, error)

// Map returns a lazy sequence that calls mapp for each element of seq.
func Map(seq Sequence, mapp MapperFunc) Sequence {
	return &mapSeq{source: seq, mapp: mapp}
}

// Filter returns a lazy sequence that only yields the elements of seq for which filter returns true.
func Filter(seq Sequence, filter PredicateFunc) Sequence {
	return &filterSeq{source: seq, filter: filter}
}

// SortStable sorts items in place using compare, keeping equal elements in their original order.
// The first comparison error aborts the sort and is returned; items are then in an undefined order.
func SortStable[T any](items []T, compare CompareFunc[T]) error {
	var sortErr error

	slices.SortStableFunc(items, func(a T, b T) bool {
		if sortErr != nil {
			return false
		}

		c, err := compare(a, b)
		if err != nil {
			sortErr = err
			return false
		}

		return c < 0
	})

	return sortErr
}

type mapSeq struct {
	source Sequence
	mapp   MapperFunc
	index  uint64
}

func (s *mapSeq) Next(ctx context.Context) (any, bool, error) {
	elem, ok, err := s.source.Next(ctx)
	if err != nil || !ok {
		return nil, false, err
	}

	outElem, err := s.mapp(ctx, elem, s.index)
	if err != nil {
		return nil, false, err
	}

	s.index++

	return outElem, true, nil
}

func (s *mapSeq) Close() error {
	return s.source.Close()
}

type filterSeq struct {
	source Sequence
	filter PredicateFunc
	index  uint64
}

func (s *filterSeq) Next(ctx context.Context) (any, bool, error) {
	for {
		elem, ok, err := s.source.Next(ctx)
		if err != nil || !ok {
			return nil, false, err
		}

		keep, err := s.filter(ctx, elem, s.index)
		if err != nil {
			return nil, false, err
		}

		s.index++

		if keep {
			return elem, true, nil
		}
	}
}

func (s *filterSeq) Close() error {
	return s.source.Close()
}
