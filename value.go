package asyncfilters

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/deadlyengineer/asyncfilters/markup"
)

// Undefined is the "no value" signal. It renders as the empty string and is falsy.
type Undefined struct {
	// Name is the variable or attribute that produced the value, if known.
	Name string
}

// String implements fmt.Stringer.
func (Undefined) String() string {
	return ""
}

// ToString converts v to its rendered form.
// nil renders as "None" and booleans as "True"/"False", matching template output conventions.
func ToString(v any) string {
	switch v := v.(type) {
	case nil:
		return "None"
	case Undefined:
		return ""
	case string:
		return v
	case markup.Markup:
		return string(v)
	case bool:
		if v {
			return "True"
		}
		return "False"
	case float32:
		return formatFloat(float64(v), 32)
	case float64:
		return formatFloat(v, 64)
	case []any:
		return formatList(v)
	case fmt.Stringer:
		return v.String()
	case error:
		return v.Error()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() { //nolint:exhaustive // everything else goes through fmt
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return string(rv.Bytes())
		}

		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}

		return formatList(items)
	case reflect.Pointer:
		if rv.IsNil() {
			return "None"
		}
	}

	return fmt.Sprint(v)
}

// Truthy reports whether v counts as true in a boolean context.
// Only nil, Undefined, false and numeric zero are falsy.
func Truthy(v any) bool {
	switch v := v.(type) {
	case nil, Undefined:
		return false
	case bool:
		return v
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() { //nolint:exhaustive // non-numeric kinds are always true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Pointer:
		return !rv.IsNil()
	}

	return true
}

// repr renders v the way it appears inside a rendered list.
func repr(v any) string {
	switch v := v.(type) {
	case string:
		return "'" + strings.ReplaceAll(v, "'", `\'`) + "'"
	case markup.Markup:
		return "'" + strings.ReplaceAll(string(v), "'", `\'`) + "'"
	case Undefined:
		return "Undefined"
	}

	return ToString(v)
}

func formatList(items []any) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = repr(item)
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}

	s := strconv.FormatFloat(f, 'f', -1, bits)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}

	return s
}
