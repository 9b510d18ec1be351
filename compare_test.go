package asyncfilters

import (
	"errors"
	"math"
	"testing"

	"github.com/matryer/is"

	"github.com/deadlyengineer/asyncfilters/markup"
)

func TestCompare(t *testing.T) {
	type name string

	tests := []struct {
		name string
		a    any
		b    any
		want int
	}{
		{name: "ints", a: 1, b: 2, want: -1},
		{name: "int and float", a: 2, b: 1.5, want: 1},
		{name: "int and uint", a: -1, b: uint(0), want: -1},
		{name: "uint and int", a: uint(5), b: 5, want: 0},
		{name: "bool and int", a: true, b: 1, want: 0},
		{name: "strings", a: "apple", b: "banana", want: -1},
		{name: "named string", a: name("b"), b: "a", want: 1},
		{name: "markup", a: markup.Markup("x"), b: "x", want: 0},
		{name: "tuples", a: []any{"a", 2}, b: []any{"a", 1}, want: 1},
		{name: "tuple prefix", a: []int{1}, b: []int{1, 0}, want: -1},
		{name: "nils", a: nil, b: nil, want: 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			is := is.New(t)

			got, err := Compare(test.a, test.b)
			is.NoErr(err)
			is.Equal(got, test.want)
		})
	}
}

func TestCompare_Error(t *testing.T) {
	tests := []struct {
		name string
		a    any
		b    any
	}{
		{name: "int and string", a: 1, b: "1"},
		{name: "nil and int", a: nil, b: 0},
		{name: "string and nil", a: "", b: nil},
		{name: "structs", a: struct{}{}, b: struct{}{}},
		{name: "tuples", a: []any{1}, b: []any{"a"}},
		{name: "nan and int", a: math.NaN(), b: 1},
		{name: "nans", a: math.NaN(), b: math.NaN()},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			is := is.New(t)

			_, err := Compare(test.a, test.b)

			var cmpErr *ComparisonError
			is.True(errors.As(err, &cmpErr))
		})
	}
}

func TestEqual(t *testing.T) {
	is := is.New(t)

	is.True(Equal(1, 1.0))
	is.True(Equal("a", markup.Markup("a")))
	is.True(Equal(map[string]int{"a": 1}, map[string]int{"a": 1}))
	is.True(!Equal(1, "1"))
	is.True(!Equal(nil, false))
}
