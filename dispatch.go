package asyncfilters

import (
	"context"
	"fmt"
)

// CallFilter dispatches the filter registered under name.
//
// In asynchronous mode the input, every argument and the filter's result are awaited when they
// are Awaitable; in synchronous mode an Awaitable anywhere is an ErrAsyncValue. A failing
// filter yields a FilterError and never a partial result.
func (rc *RenderContext) CallFilter(ctx context.Context, name string, value any, args Args) (any, error) {
	fn, err := rc.Filters.Lookup(name)
	if err != nil {
		return nil, err
	}

	log := rc.Logger.With().Str("filter", name).Stringer("mode", rc.Mode).Logger()

	value, err = rc.Await(ctx, value)
	if err != nil {
		return nil, &FilterError{Filter: name, Err: err}
	}

	resolved, err := rc.awaitArgs(ctx, args)
	if err != nil {
		return nil, &FilterError{Filter: name, Err: err}
	}

	log.Debug().Int("args", len(resolved.Positional)+len(resolved.Keyword)).Msg("dispatch filter")

	out, err := fn(ctx, rc, value, resolved)
	if err == nil {
		out, err = rc.Await(ctx, out)
	}

	if err != nil {
		log.Debug().Err(err).Msg("filter failed")
		return nil, &FilterError{Filter: name, Err: err}
	}

	return out, nil
}

// CallTest runs the test registered under name.
func (rc *RenderContext) CallTest(name string, value any, args ...any) (bool, error) {
	fn, err := rc.Tests.Lookup(name)
	if err != nil {
		return false, err
	}

	return fn(value, args...)
}

// predicate builds the test used by select-style filters from args, starting at position pos.
// Without a test name the predicate is truthiness. The test is looked up immediately, so an
// unknown name fails at dispatch time rather than when the output is consumed.
func (rc *RenderContext) predicate(args Args, pos int) (func(v any) (bool, error), error) {
	nameArg, ok := args.Get(pos, "")
	if !ok {
		return func(v any) (bool, error) {
			return Truthy(v), nil
		}, nil
	}

	name, ok := nameArg.(string)
	if !ok {
		return nil, fmt.Errorf("test name must be a string, got %T", nameArg)
	}

	fn, err := rc.Tests.Lookup(name)
	if err != nil {
		return nil, err
	}

	testArgs := args.Rest(pos + 1)

	return func(v any) (bool, error) {
		return fn(v, testArgs...)
	}, nil
}

func (rc *RenderContext) awaitArgs(ctx context.Context, args Args) (Args, error) {
	out := Args{
		Positional: make([]any, len(args.Positional)),
		Keyword:    make(map[string]any, len(args.Keyword)),
	}

	for i, arg := range args.Positional {
		v, err := rc.Await(ctx, arg)
		if err != nil {
			return Args{}, err
		}

		out.Positional[i] = v
	}

	for name, arg := range args.Keyword {
		v, err := rc.Await(ctx, arg)
		if err != nil {
			return Args{}, err
		}

		out.Keyword[name] = v
	}

	return out, nil
}
