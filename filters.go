package asyncfilters

import (
	"context"
	"fmt"
	"strings"

	"github.com/deadlyengineer/asyncfilters/markup"
)

func builtinFilters() map[string]FilterFunc {
	return map[string]FilterFunc{
		"first":      filterFirst,
		"groupby":    filterGroupBy,
		"join":       filterJoin,
		"reject":     selectOrReject(false),
		"select":     selectOrReject(true),
		"rejectattr": selectOrRejectAttr(false),
		"selectattr": selectOrRejectAttr(true),
		"map":        filterMap,
		"list":       filterList,
		"sum":        filterSum,
		"length":     filterLength,
		"count":      filterLength,
		"safe":       filterSafe,
		"escape":     filterEscape,
		"e":          filterEscape,
	}
}

// filterFirst returns the first item, reading no further than that, or Undefined if the stream is empty.
func filterFirst(ctx context.Context, rc *RenderContext, value any, _ Args) (any, error) {
	seq, err := rc.Iterate(value)
	if err != nil {
		return nil, err
	}

	item, ok, err := First(ctx, seq)
	if err != nil {
		return nil, err
	}

	if !ok {
		return Undefined{Name: "first"}, nil
	}

	return item, nil
}

// filterGroupBy drains the stream and groups it by attribute, in ascending key order.
func filterGroupBy(ctx context.Context, rc *RenderContext, value any, args Args) (any, error) {
	attr, ok := args.Get(0, "attribute")
	if !ok {
		return nil, &ArgumentError{Filter: "groupby", Arg: "attribute", Reason: "is required"}
	}

	def, hasDefault := args.Get(1, "default")

	items, err := drainValue(ctx, rc, value)
	if err != nil {
		return nil, err
	}

	return GroupBy(items, func(item any) (any, error) {
		key, err := Resolve(item, attr)
		if err != nil && hasDefault {
			return def, nil
		}

		return key, err
	})
}

// filterJoin concatenates the stream with a separator. With autoescaping every piece not
// already marked safe is escaped and the result is marked safe.
func filterJoin(ctx context.Context, rc *RenderContext, value any, args Args) (any, error) {
	sep, ok := args.Get(0, "d")
	if !ok {
		sep = ""
	}

	items, err := drainValue(ctx, rc, value)
	if err != nil {
		return nil, err
	}

	if attr, ok := args.Get(1, "attribute"); ok && attr != nil {
		for i, item := range items {
			if items[i], err = Resolve(item, attr); err != nil {
				return nil, err
			}
		}
	}

	if rc.Autoescape {
		return markup.Join(items, sep, ToString), nil
	}

	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = ToString(item)
	}

	return strings.Join(parts, ToString(sep)), nil
}

// selectOrReject keeps the items whose test result equals keep. The result is lazy.
func selectOrReject(keep bool) FilterFunc {
	return func(_ context.Context, rc *RenderContext, value any, args Args) (any, error) {
		pred, err := rc.predicate(args, 0)
		if err != nil {
			return nil, err
		}

		seq, err := rc.Iterate(value)
		if err != nil {
			return nil, err
		}

		return Filter(seq, func(_ context.Context, elem any, _ uint64) (bool, error) {
			ok, err := pred(elem)
			return ok == keep, err
		}), nil
	}
}

// selectOrRejectAttr is selectOrReject applied to an attribute of each item.
func selectOrRejectAttr(keep bool) FilterFunc {
	name := "rejectattr"
	if keep {
		name = "selectattr"
	}

	return func(_ context.Context, rc *RenderContext, value any, args Args) (any, error) {
		attr, ok := args.Get(0, "")
		if !ok {
			return nil, &ArgumentError{Filter: name, Arg: "attribute", Reason: "is required"}
		}

		pred, err := rc.predicate(args, 1)
		if err != nil {
			return nil, err
		}

		seq, err := rc.Iterate(value)
		if err != nil {
			return nil, err
		}

		return Filter(seq, func(_ context.Context, elem any, _ uint64) (bool, error) {
			v, err := Resolve(elem, attr)
			if err != nil {
				return false, err
			}

			ok, err := pred(v)

			return ok == keep, err
		}), nil
	}
}

// filterMap lazily maps the stream either to an attribute of each item or through another filter.
func filterMap(_ context.Context, rc *RenderContext, value any, args Args) (any, error) {
	seq, err := rc.Iterate(value)
	if err != nil {
		return nil, err
	}

	if attr, ok := args.Keyword["attribute"]; ok {
		def, hasDefault := args.Keyword["default"]

		return Map(seq, func(_ context.Context, elem any, _ uint64) (any, error) {
			v, err := Resolve(elem, attr)
			if err != nil && hasDefault {
				return def, nil
			}

			return v, err
		}), nil
	}

	nameArg, ok := args.Get(0, "")
	if !ok {
		_ = seq.Close()
		return nil, &ArgumentError{Filter: "map", Arg: "filter", Reason: "or attribute is required"}
	}

	name, ok := nameArg.(string)
	if !ok {
		_ = seq.Close()
		return nil, &ArgumentError{Filter: "map", Arg: "filter", Reason: fmt.Sprintf("must be a string, got %T", nameArg)}
	}

	if _, err := rc.Filters.Lookup(name); err != nil {
		_ = seq.Close()
		return nil, err
	}

	inner := Args{Positional: args.Rest(1), Keyword: args.Keyword}

	return Map(seq, func(ctx context.Context, elem any, _ uint64) (any, error) {
		return rc.CallFilter(ctx, name, elem, inner)
	}), nil
}

func filterList(ctx context.Context, rc *RenderContext, value any, _ Args) (any, error) {
	return drainValue(ctx, rc, value)
}

// filterSum adds up the stream, or an attribute of each item, starting from start.
func filterSum(ctx context.Context, rc *RenderContext, value any, args Args) (any, error) {
	attr, hasAttr := args.Keyword["attribute"]

	start, ok := args.Get(1, "start")
	if !ok {
		start = 0
	}

	if a, ok := args.Get(0, ""); ok {
		attr, hasAttr = a, true
	}

	seq, err := rc.Iterate(value)
	if err != nil {
		return nil, err
	}

	return Reduce(ctx, seq, start, func(_ context.Context, elem any, _ uint64, acc any) (any, error) {
		if hasAttr && attr != nil {
			var err error
			if elem, err = Resolve(elem, attr); err != nil {
				return nil, err
			}
		}

		return add(acc, elem)
	})
}

func filterLength(ctx context.Context, rc *RenderContext, value any, _ Args) (any, error) {
	seq, err := rc.Iterate(value)
	if err != nil {
		return nil, err
	}

	n, err := Count(ctx, seq)
	if err != nil {
		return nil, err
	}

	return int(n), nil
}

func filterSafe(_ context.Context, _ *RenderContext, value any, _ Args) (any, error) {
	if m, ok := markup.Safe(value); ok {
		return m, nil
	}

	return markup.Markup(ToString(value)), nil
}

func filterEscape(_ context.Context, _ *RenderContext, value any, _ Args) (any, error) {
	if m, ok := markup.Safe(value); ok {
		return m, nil
	}

	return markup.Escape(ToString(value)), nil
}

func drainValue(ctx context.Context, rc *RenderContext, value any) ([]any, error) {
	seq, err := rc.Iterate(value)
	if err != nil {
		return nil, err
	}

	return Drain(ctx, seq)
}

func add(a any, b any) (any, error) {
	na, nb := toNumber(a), toNumber(b)
	if na.kind == notNumber || nb.kind == notNumber {
		return nil, fmt.Errorf("cannot add %T and %T", a, b)
	}

	switch {
	case na.kind == floatNumber || nb.kind == floatNumber:
		return na.float() + nb.float(), nil
	case na.kind == unsignedNumber && nb.kind == unsignedNumber:
		if sum := na.u + nb.u; sum >= na.u {
			return sum, nil
		}
	case na.fitsInt() && nb.fitsInt():
		a, b := na.int(), nb.int()
		if sum := a + b; (b >= 0) == (sum >= a) {
			return int(sum), nil
		}
	}

	// out of integer range
	return na.float() + nb.float(), nil
}
