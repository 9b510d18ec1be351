package asyncfilters

import (
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestProduce(t *testing.T) {
	is := is.New(t)

	ctx := context.Background()

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	ints := []int{}
	for i := range Produce([]int{1, 2}, []int{3, 4, 5})(ctx, cancel) {
		ints = append(ints, i)
	}

	is.Equal(ints, []int{1, 2, 3, 4, 5})
}

func TestProduce_Cancel(t *testing.T) {
	is := is.New(t)

	ctx := context.Background()

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	ints := []int{}
	for i := range Produce([]int{1, 2, 3, 4, 5})(ctx, cancel) {
		ints = append(ints, i)

		if i == 2 {
			cancel(nil)
			break
		}
	}

	is.Equal(ints, []int{1, 2})
}

func TestProduceChannel(t *testing.T) {
	is := is.New(t)

	ctx := context.Background()

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	intsCh1 := Produce([]int{1, 2})(ctx, cancel)
	intsCh2 := Produce([]int{3, 4, 5})(ctx, cancel)

	ints := []int{}
	for i := range ProduceChannel(intsCh1, intsCh2)(ctx, cancel) {
		ints = append(ints, i)
	}

	is.Equal(ints, []int{1, 2, 3, 4, 5})
}

func TestProduceSeq(t *testing.T) {
	is := is.New(t)

	ctx := context.Background()

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	strs := []string{}
	for s := range ProduceSeq(seqOf("a", "b", "c"))(ctx, cancel) {
		strs = append(strs, s)
	}

	is.Equal(strs, []string{"a", "b", "c"})
}

func TestProduceFunc_Error(t *testing.T) {
	is := is.New(t)

	ctx := context.Background()

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	errBroken := errors.New("broken")

	prod := ProduceFunc(func(_ context.Context, emit func(int) bool) error {
		emit(1)
		return errBroken
	})

	ints := []int{}
	for i := range prod(ctx, cancel) {
		ints = append(ints, i)
	}

	is.Equal(ints, []int{1})
	is.True(errors.Is(context.Cause(ctx), errBroken))
}

func TestProducerFunc_Items(t *testing.T) {
	is := is.New(t)

	ctx := context.Background()

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	var src AsyncSource = Produce([]int{1, 2, 3})

	items := []any{}
	for item := range src.Items(ctx, cancel) {
		items = append(items, item)
	}

	is.Equal(items, []any{1, 2, 3})

	src = Produce([]any{"a", nil})

	items = []any{}
	for item := range src.Items(ctx, cancel) {
		items = append(items, item)
	}

	is.Equal(items, []any{"a", nil})
}
