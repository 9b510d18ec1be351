package asyncfilters

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// AttrGetter is implemented by values exposing named fields to templates.
type AttrGetter interface {
	GetAttr(name string) (any, bool)
}

// ItemGetter is implemented by values exposing positional access to templates.
type ItemGetter interface {
	GetItem(index int) (any, bool)
}

// Resolve looks up path on value.
// A string path is split on dots and each segment resolved in turn; segments made of digits
// are positional indexes. An int path is a single positional index.
// A segment that cannot be resolved yields an UndefinedError.
func Resolve(value any, path any) (any, error) {
	switch p := path.(type) {
	case int:
		return resolveSegment(value, strconv.Itoa(p), strconv.Itoa(p))
	case string:
		if p == "" {
			return value, nil
		}

		current := value

		for _, segment := range strings.Split(p, ".") {
			var err error

			current, err = resolveSegment(current, segment, p)
			if err != nil {
				return nil, err
			}
		}

		return current, nil
	default:
		if n := toNumber(path); n.kind == signedNumber || n.kind == unsignedNumber {
			return Resolve(value, int(n.float()))
		}

		return nil, fmt.Errorf("invalid attribute path %T", path)
	}
}

func resolveSegment(value any, segment string, path string) (any, error) {
	if index, err := strconv.Atoi(segment); err == nil {
		if v, ok := getItem(value, index); ok {
			return v, nil
		}
	}

	if v, ok := getAttr(value, segment); ok {
		return v, nil
	}

	return nil, &UndefinedError{Path: path, Segment: segment, Value: value}
}

func getAttr(value any, name string) (any, bool) {
	if g, ok := value.(AttrGetter); ok {
		if v, ok := g.GetAttr(name); ok {
			return v, true
		}
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}

		if method := rv.MethodByName(exported(name)); method.IsValid() && method.Type().NumIn() == 0 {
			return callGetter(method)
		}

		rv = rv.Elem()
	}

	switch rv.Kind() { //nolint:exhaustive // other kinds carry no named members
	case reflect.Map:
		key := reflect.ValueOf(name)

		switch keyType := rv.Type().Key(); {
		case keyType.Kind() == reflect.String:
			key = key.Convert(keyType)
		case !key.Type().AssignableTo(keyType):
			return nil, false
		}

		if v := rv.MapIndex(key); v.IsValid() {
			return v.Interface(), true
		}

	case reflect.Struct:
		for _, fieldName := range []string{name, exported(name)} {
			field, ok := rv.Type().FieldByName(fieldName)
			if ok && field.IsExported() {
				return rv.FieldByIndex(field.Index).Interface(), true
			}
		}

		if method := rv.MethodByName(exported(name)); method.IsValid() && method.Type().NumIn() == 0 {
			return callGetter(method)
		}
	}

	return nil, false
}

func getItem(value any, index int) (any, bool) {
	if g, ok := value.(ItemGetter); ok {
		return g.GetItem(index)
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}

		rv = rv.Elem()
	}

	switch rv.Kind() { //nolint:exhaustive // other kinds are not indexable
	case reflect.Slice, reflect.Array:
		if index < 0 {
			index += rv.Len()
		}

		if index < 0 || index >= rv.Len() {
			return nil, false
		}

		return rv.Index(index).Interface(), true

	case reflect.Map:
		key := reflect.ValueOf(index)
		if rv.Type().Key().Kind() == reflect.String || !key.Type().ConvertibleTo(rv.Type().Key()) {
			return nil, false
		}

		if v := rv.MapIndex(key.Convert(rv.Type().Key())); v.IsValid() {
			return v.Interface(), true
		}
	}

	return nil, false
}

// callGetter calls a zero-argument method returning a value, or a value and an error.
func callGetter(method reflect.Value) (any, bool) {
	typ := method.Type()
	if typ.NumOut() == 0 || typ.NumOut() > 2 {
		return nil, false
	}

	out := method.Call(nil)
	if len(out) == 2 {
		if err, _ := out[1].Interface().(error); err != nil {
			return nil, false
		}
	}

	return out[0].Interface(), true
}

func exported(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}

	return string(unicode.ToUpper(r)) + name[size:]
}
