package asyncfilters

import (
	"math"
	"reflect"

	"golang.org/x/exp/constraints"

	"github.com/deadlyengineer/asyncfilters/markup"
)

type numberKind int

const (
	notNumber numberKind = iota
	signedNumber
	unsignedNumber
	floatNumber
)

type number struct {
	kind numberKind
	i    int64
	u    uint64
	f    float64
}

// Compare orders two grouper keys.
// Numbers (booleans count as 0 and 1) compare numerically, strings lexically, and slices
// element by element. nil only equals nil. NaN has no order. Any other pairing is a ComparisonError.
func Compare(a any, b any) (int, error) {
	if a == nil || b == nil {
		if a == nil && b == nil {
			return 0, nil
		}

		return 0, &ComparisonError{A: a, B: b}
	}

	if na, nb := toNumber(a), toNumber(b); na.kind != notNumber && nb.kind != notNumber {
		if na.isNaN() || nb.isNaN() {
			return 0, &ComparisonError{A: a, B: b}
		}

		return compareNumbers(na, nb), nil
	}

	if sa, ok := toStr(a); ok {
		if sb, ok := toStr(b); ok {
			return compareOrdered(sa, sb), nil
		}

		return 0, &ComparisonError{A: a, B: b}
	}

	la, okA := toList(a)
	lb, okB := toList(b)

	if okA && okB {
		for i := 0; i < len(la) && i < len(lb); i++ {
			c, err := Compare(la[i], lb[i])
			if err != nil {
				return 0, err
			}

			if c != 0 {
				return c, nil
			}
		}

		return compareOrdered(len(la), len(lb)), nil
	}

	return 0, &ComparisonError{A: a, B: b}
}

// Equal reports whether a and b are equal under Compare, falling back to deep equality
// for values Compare cannot order.
func Equal(a any, b any) bool {
	c, err := Compare(a, b)
	if err != nil {
		return reflect.DeepEqual(a, b)
	}

	return c == 0
}

func compareOrdered[T constraints.Ordered](a T, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareNumbers(a number, b number) int {
	switch {
	case a.kind == floatNumber || b.kind == floatNumber:
		return compareOrdered(a.float(), b.float())

	case a.kind == signedNumber && b.kind == signedNumber:
		return compareOrdered(a.i, b.i)

	case a.kind == unsignedNumber && b.kind == unsignedNumber:
		return compareOrdered(a.u, b.u)

	case a.kind == signedNumber:
		if a.i < 0 {
			return -1
		}

		return compareOrdered(uint64(a.i), b.u)

	default:
		if b.i < 0 {
			return 1
		}

		return compareOrdered(a.u, uint64(b.i))
	}
}

func (n number) float() float64 {
	switch n.kind { //nolint:exhaustive // notNumber never reaches here
	case signedNumber:
		return float64(n.i)
	case unsignedNumber:
		return float64(n.u)
	default:
		return n.f
	}
}

func (n number) isNaN() bool {
	return n.kind == floatNumber && math.IsNaN(n.f)
}

func (n number) fitsInt() bool {
	return n.kind == signedNumber || (n.kind == unsignedNumber && n.u <= math.MaxInt64)
}

func (n number) int() int64 {
	if n.kind == unsignedNumber {
		return int64(n.u)
	}

	return n.i
}

func toNumber(v any) number {
	if b, ok := v.(bool); ok {
		if b {
			return number{kind: signedNumber, i: 1}
		}

		return number{kind: signedNumber}
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() { //nolint:exhaustive // only numeric kinds are numbers
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return number{kind: signedNumber, i: rv.Int()}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return number{kind: unsignedNumber, u: rv.Uint()}
	case reflect.Float32, reflect.Float64:
		return number{kind: floatNumber, f: rv.Float()}
	}

	return number{}
}

func toStr(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case markup.Markup:
		return string(v), true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}

	return "", false
}

func toList(v any) ([]any, bool) {
	if l, ok := v.([]any); ok {
		return l, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}

	return items, true
}
