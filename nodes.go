package asyncfilters

import (
	"context"
	"strings"
)

// Template is a compiled template: the node tree a parser produces.
type Template struct {
	Name  string
	Nodes []Node
}

// Node is a statement of a compiled template.
type Node interface {
	render(ctx context.Context, f *frame, out *strings.Builder) error
}

// Expr is an expression of a compiled template.
type Expr interface {
	eval(ctx context.Context, f *frame) (any, error)
}

// Text emits literal template data.
type Text struct {
	Data string
}

// Output emits the value of an expression, escaping it when autoescaping is on.
type Output struct {
	Expr Expr
}

// For renders Body once per item of Iter. With several Targets each item is unpacked
// positionally. Else is rendered when Iter yields nothing.
type For struct {
	Targets []string
	Iter    Expr
	Body    []Node
	Else    []Node
}

// Const is a literal value.
type Const struct {
	Value any
}

// Var looks up a variable. Unknown variables evaluate to Undefined.
type Var struct {
	Name string
}

// Call calls a function value with positional arguments.
// A function whose first parameter is a context.Context receives the render's context.
type Call struct {
	Func Expr
	Args []Expr
}

// Getattr resolves an attribute path on the value of Expr, as in x.foo or x.1.
// A missing attribute evaluates to Undefined.
type Getattr struct {
	Expr Expr
	Path any
}

// List builds a list literal.
type List struct {
	Items []Expr
}

// FilterCall applies the filter Name to the value of Input.
type FilterCall struct {
	Name   string
	Input  Expr
	Args   []Expr
	Kwargs map[string]Expr
}

// LoopInfo is bound to "loop" inside a For body.
type LoopInfo struct {
	Index  int
	Index0 int
	First  bool
}

// frame is one variable scope of a render.
type frame struct {
	rc     *RenderContext
	vars   map[string]any
	parent *frame
}

func (f *frame) child() *frame {
	return &frame{rc: f.rc, vars: map[string]any{}, parent: f}
}

func (f *frame) lookup(name string) any {
	for cur := f; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v
		}
	}

	return Undefined{Name: name}
}
