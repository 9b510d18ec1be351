package asyncfilters

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/deadlyengineer/asyncfilters/markup"
)

var contextType = reflect.TypeOf((*context.Context)(nil)).Elem()

func renderNodes(ctx context.Context, f *frame, nodes []Node, out *strings.Builder) error {
	for _, node := range nodes {
		if err := node.render(ctx, f, out); err != nil {
			return err
		}
	}

	return nil
}

func (n Text) render(_ context.Context, _ *frame, out *strings.Builder) error {
	out.WriteString(n.Data)
	return nil
}

func (n Output) render(ctx context.Context, f *frame, out *strings.Builder) error {
	v, err := evalAwait(ctx, f, n.Expr)
	if err != nil {
		return err
	}

	if seq, ok := v.(Sequence); ok {
		if v, err = Drain(ctx, seq); err != nil {
			return err
		}
	}

	if !f.rc.Autoescape {
		out.WriteString(ToString(v))
		return nil
	}

	if m, ok := markup.Safe(v); ok {
		out.WriteString(string(m))
		return nil
	}

	out.WriteString(string(markup.Escape(ToString(v))))

	return nil
}

func (n For) render(ctx context.Context, f *frame, out *strings.Builder) error {
	v, err := evalAwait(ctx, f, n.Iter)
	if err != nil {
		return err
	}

	seq, err := f.rc.Iterate(v)
	if err != nil {
		return err
	}

	iterated := false

	err = Each(ctx, seq, func(ctx context.Context, elem any, index uint64) error {
		iterated = true

		scope := f.child()
		if err := scope.unpack(n.Targets, elem); err != nil {
			return err
		}

		scope.vars["loop"] = LoopInfo{Index: int(index) + 1, Index0: int(index), First: index == 0}

		return renderNodes(ctx, scope, n.Body, out)
	})
	if err != nil {
		return err
	}

	if !iterated {
		return renderNodes(ctx, f.child(), n.Else, out)
	}

	return nil
}

func (f *frame) unpack(targets []string, elem any) error {
	if len(targets) == 1 {
		f.vars[targets[0]] = elem
		return nil
	}

	for i, target := range targets {
		v, ok := getItem(elem, i)
		if !ok {
			return fmt.Errorf("cannot unpack %T into %d targets", elem, len(targets))
		}

		f.vars[target] = v
	}

	return nil
}

func (n Const) eval(context.Context, *frame) (any, error) {
	return n.Value, nil
}

func (n Var) eval(_ context.Context, f *frame) (any, error) {
	return f.lookup(n.Name), nil
}

func (n List) eval(ctx context.Context, f *frame) (any, error) {
	items := make([]any, len(n.Items))

	for i, item := range n.Items {
		v, err := evalAwait(ctx, f, item)
		if err != nil {
			return nil, err
		}

		items[i] = v
	}

	return items, nil
}

func (n Getattr) eval(ctx context.Context, f *frame) (any, error) {
	v, err := evalAwait(ctx, f, n.Expr)
	if err != nil {
		return nil, err
	}

	out, err := Resolve(v, n.Path)

	var undef *UndefinedError
	if errors.As(err, &undef) {
		return Undefined{Name: undef.Segment}, nil
	}

	return out, err
}

func (n Call) eval(ctx context.Context, f *frame) (any, error) {
	fn, err := evalAwait(ctx, f, n.Func)
	if err != nil {
		return nil, err
	}

	args := make([]any, len(n.Args))

	for i, arg := range n.Args {
		if args[i], err = evalAwait(ctx, f, arg); err != nil {
			return nil, err
		}
	}

	return call(ctx, fn, args)
}

func (n FilterCall) eval(ctx context.Context, f *frame) (any, error) {
	input, err := n.Input.eval(ctx, f)
	if err != nil {
		return nil, err
	}

	args := Args{
		Positional: make([]any, len(n.Args)),
		Keyword:    make(map[string]any, len(n.Kwargs)),
	}

	for i, arg := range n.Args {
		if args.Positional[i], err = arg.eval(ctx, f); err != nil {
			return nil, err
		}
	}

	for name, arg := range n.Kwargs {
		if args.Keyword[name], err = arg.eval(ctx, f); err != nil {
			return nil, err
		}
	}

	return f.rc.CallFilter(ctx, n.Name, input, args)
}

// evalAwait evaluates expr and awaits the result in asynchronous mode.
func evalAwait(ctx context.Context, f *frame, expr Expr) (any, error) {
	v, err := expr.eval(ctx, f)
	if err != nil {
		return nil, err
	}

	return f.rc.Await(ctx, v)
}

// call invokes fn through reflection. fn may take a leading context.Context and may return
// a value, or a value and an error.
func call(ctx context.Context, fn any, args []any) (any, error) {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, fmt.Errorf("%s is not callable", repr(fn))
	}

	typ := rv.Type()

	in := []reflect.Value{}
	if typ.NumIn() > 0 && typ.In(0) == contextType {
		in = append(in, reflect.ValueOf(ctx))
	}

	fixed := typ.NumIn()
	if typ.IsVariadic() {
		fixed--
	}

	if n := len(in) + len(args); n < fixed || (!typ.IsVariadic() && n > fixed) {
		return nil, fmt.Errorf("%s takes %d arguments, got %d", typ, fixed-len(in), len(args))
	}

	for _, arg := range args {
		var param reflect.Type
		if len(in) < fixed {
			param = typ.In(len(in))
		} else {
			param = typ.In(fixed).Elem()
		}

		v, err := argValue(arg, param)
		if err != nil {
			return nil, err
		}

		in = append(in, v)
	}

	out := rv.Call(in)

	switch {
	case len(out) == 0:
		return nil, nil
	case len(out) == 2 && typ.Out(1) == reflect.TypeOf((*error)(nil)).Elem():
		if err, _ := out[1].Interface().(error); err != nil {
			return nil, err
		}

		return out[0].Interface(), nil
	default:
		return out[0].Interface(), nil
	}
}

func argValue(arg any, param reflect.Type) (reflect.Value, error) {
	if arg == nil {
		return reflect.Zero(param), nil
	}

	v := reflect.ValueOf(arg)

	switch {
	case v.Type().AssignableTo(param):
		return v, nil
	case v.Type().ConvertibleTo(param) && v.Kind() != reflect.String:
		return v.Convert(param), nil
	default:
		return reflect.Value{}, fmt.Errorf("cannot use %T as %s", arg, param)
	}
}
