package asyncfilters

import (
	"errors"
	"math"
	"testing"

	"github.com/matryer/is"

	"github.com/deadlyengineer/asyncfilters/markup"
)

func TestToString(t *testing.T) {
	var nilPtr *int

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "nil", value: nil, want: "None"},
		{name: "undefined", value: Undefined{Name: "x"}, want: ""},
		{name: "true", value: true, want: "True"},
		{name: "false", value: false, want: "False"},
		{name: "int", value: 42, want: "42"},
		{name: "whole float", value: 2.0, want: "2.0"},
		{name: "float", value: 0.25, want: "0.25"},
		{name: "infinity", value: math.Inf(1), want: "inf"},
		{name: "string", value: "<b>", want: "<b>"},
		{name: "markup", value: markup.Markup("<b>"), want: "<b>"},
		{name: "list", value: []any{nil, false, 0, "a"}, want: "[None, False, 0, 'a']"},
		{name: "typed list", value: []int{1, 2}, want: "[1, 2]"},
		{name: "bytes", value: []byte("raw"), want: "raw"},
		{name: "error", value: errors.New("boom"), want: "boom"},
		{name: "nil pointer", value: nilPtr, want: "None"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			is := is.New(t)
			is.Equal(ToString(test.value), test.want)
		})
	}
}

func TestTruthy(t *testing.T) {
	is := is.New(t)

	for _, v := range []any{nil, Undefined{}, false, 0, uint8(0), 0.0, (*int)(nil)} {
		is.True(!Truthy(v))
	}

	for _, v := range []any{true, 1, -1, 0.5, "", "a", []any{}, map[string]int{}, struct{}{}} {
		is.True(Truthy(v))
	}
}
