package asyncfilters

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/deadlyengineer/asyncfilters/config"
)

// Environment holds the configuration shared by renders: filters, tests, globals and the
// autoescape and async switches. It is safe to render from several goroutines at once.
type Environment struct {
	autoescape bool
	async      bool
	filters    *Registry[FilterFunc]
	tests      *Registry[TestFunc]
	globals    map[string]any
	logger     zerolog.Logger
}

// Option configures an Environment.
type Option func(*Environment)

// WithAutoescape turns HTML autoescaping of output on or off.
func WithAutoescape(enabled bool) Option {
	return func(e *Environment) {
		e.autoescape = enabled
	}
}

// WithAsync makes renders run in asynchronous mode.
func WithAsync(enabled bool) Option {
	return func(e *Environment) {
		e.async = enabled
	}
}

// WithLogger sets the logger used for render and dispatch events.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Environment) {
		e.logger = logger
	}
}

// WithFilter registers an additional filter.
func WithFilter(name string, fn FilterFunc) Option {
	return func(e *Environment) {
		e.filters.Register(strings.TrimSpace(name), fn)
	}
}

// WithTest registers an additional test.
func WithTest(name string, fn TestFunc) Option {
	return func(e *Environment) {
		e.tests.Register(strings.TrimSpace(name), fn)
	}
}

// WithGlobals seeds variables visible to every render.
func WithGlobals(globals map[string]any) Option {
	return func(e *Environment) {
		for name, v := range globals {
			e.globals[name] = v
		}
	}
}

// NewEnvironment returns an Environment with the built-in filters and tests.
func NewEnvironment(opts ...Option) *Environment {
	env := &Environment{
		filters: DefaultFilters(),
		tests:   DefaultTests(),
		globals: map[string]any{},
		logger:  zerolog.Nop(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(env)
		}
	}

	return env
}

// NewEnvironmentFromConfig returns an Environment configured from cfg.
// Logs go to stderr; opts are applied after cfg and may override it.
func NewEnvironmentFromConfig(cfg *config.Config, opts ...Option) *Environment {
	base := []Option{
		WithAutoescape(cfg.Autoescape),
		WithAsync(cfg.EnableAsync),
		WithLogger(config.NewLogger(cfg.Logging, os.Stderr)),
	}

	return NewEnvironment(append(base, opts...)...)
}

// Filters returns the filter registry.
func (e *Environment) Filters() *Registry[FilterFunc] {
	return e.filters
}

// Tests returns the test registry.
func (e *Environment) Tests() *Registry[TestFunc] {
	return e.tests
}

// NewRenderContext returns fresh per-render state. The mode is fixed here, once per render.
func (e *Environment) NewRenderContext() *RenderContext {
	mode := ModeSync
	if e.async {
		mode = ModeAsync
	}

	return &RenderContext{
		Mode:       mode,
		Autoescape: e.autoescape,
		Filters:    e.filters,
		Tests:      e.tests,
		Logger:     e.logger,
	}
}

// Render evaluates tmpl with vars. Output is all or nothing: on any failure, including
// cancellation of ctx, the empty string and the error are returned.
func (e *Environment) Render(ctx context.Context, tmpl *Template, vars map[string]any) (string, error) {
	rc := e.NewRenderContext()

	log := e.logger.With().Str("template", tmpl.Name).Stringer("mode", rc.Mode).Logger()
	log.Debug().Bool("autoescape", rc.Autoescape).Msg("render started")

	root := &frame{rc: rc, vars: e.globals}
	scope := root.child()

	for name, v := range vars {
		scope.vars[name] = v
	}

	out := strings.Builder{}

	err := renderNodes(ctx, scope, tmpl.Nodes, &out)
	if err == nil && contextDone(ctx) {
		err = context.Cause(ctx)
	}

	if err != nil {
		log.Debug().Err(err).Msg("render failed")
		return "", err
	}

	log.Debug().Int("bytes", out.Len()).Msg("render finished")

	return out.String(), nil
}
