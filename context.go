package asyncfilters

import (
	"context"

	"github.com/rs/zerolog"
)

// Mode selects how a render consumes its data sources.
type Mode int

const (
	// ModeSync renders eagerly and never suspends. Asynchronous sources and awaitables are errors.
	ModeSync Mode = iota

	// ModeAsync suspends on every fetch from an asynchronous source and awaits awaitable values.
	ModeAsync
)

// RenderContext is the per-render state handed to every filter invocation.
// It is created once when a render begins and never shared between renders.
type RenderContext struct {
	Mode       Mode
	Autoescape bool
	Filters    *Registry[FilterFunc]
	Tests      *Registry[TestFunc]
	Logger     zerolog.Logger
}

// String implements fmt.Stringer.
func (m Mode) String() string {
	if m == ModeAsync {
		return "async"
	}

	return "sync"
}

// Await resolves value if it is an Awaitable. In synchronous mode an Awaitable is an ErrAsyncValue.
func (rc *RenderContext) Await(ctx context.Context, value any) (any, error) {
	aw, ok := value.(Awaitable)
	if !ok {
		return value, nil
	}

	if rc.Mode != ModeAsync {
		return nil, ErrAsyncValue
	}

	return aw.Await(ctx)
}

// contextDone returns true if ctx.Err() != nil.
func contextDone(ctx context.Context) bool {
	return ctx.Err() != nil
}
