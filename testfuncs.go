package asyncfilters

import (
	"fmt"
	"reflect"
	"strings"
)

func builtinTests() map[string]TestFunc {
	return map[string]TestFunc{
		"odd":         testOdd,
		"even":        testEven,
		"divisibleby": testDivisibleBy,
		"defined":     testDefined,
		"undefined":   negate(testDefined),
		"none":        testNone,
		"boolean":     testBoolean,
		"true":        testTrue,
		"false":       testFalse,
		"number":      testNumber,
		"integer":     testInteger,
		"float":       testFloat,
		"string":      testString,
		"mapping":     testMapping,
		"sequence":    testSequence,
		"lower":       testLower,
		"upper":       testUpper,
		"in":          testIn,
		"eq":          testEq,
		"==":          testEq,
		"equalto":     testEq,
		"ne":          negate(testEq),
		"!=":          negate(testEq),
		"lt":          testOrder(func(c int) bool { return c < 0 }),
		"<":           testOrder(func(c int) bool { return c < 0 }),
		"le":          testOrder(func(c int) bool { return c <= 0 }),
		"<=":          testOrder(func(c int) bool { return c <= 0 }),
		"gt":          testOrder(func(c int) bool { return c > 0 }),
		">":           testOrder(func(c int) bool { return c > 0 }),
		"ge":          testOrder(func(c int) bool { return c >= 0 }),
		">=":          testOrder(func(c int) bool { return c >= 0 }),
	}
}

func integer(test string, v any) (int64, error) {
	n := toNumber(v)

	switch n.kind { //nolint:exhaustive // floats and non-numbers are rejected below
	case signedNumber:
		if _, isBool := v.(bool); !isBool {
			return n.i, nil
		}
	case unsignedNumber:
		return int64(n.u), nil
	}

	return 0, fmt.Errorf("test %s: expected an integer, got %T", test, v)
}

func testOdd(v any, _ ...any) (bool, error) {
	i, err := integer("odd", v)
	return i%2 != 0, err
}

func testEven(v any, _ ...any) (bool, error) {
	i, err := integer("even", v)
	return err == nil && i%2 == 0, err
}

func testDivisibleBy(v any, args ...any) (bool, error) {
	if len(args) != 1 {
		return false, fmt.Errorf("test divisibleby: expected 1 argument, got %d", len(args))
	}

	i, err := integer("divisibleby", v)
	if err != nil {
		return false, err
	}

	d, err := integer("divisibleby", args[0])
	if err != nil {
		return false, err
	}

	if d == 0 {
		return false, fmt.Errorf("test divisibleby: division by zero")
	}

	return i%d == 0, nil
}

func testDefined(v any, _ ...any) (bool, error) {
	_, undefined := v.(Undefined)
	return !undefined, nil
}

func testNone(v any, _ ...any) (bool, error) {
	return v == nil, nil
}

func testBoolean(v any, _ ...any) (bool, error) {
	_, ok := v.(bool)
	return ok, nil
}

func testTrue(v any, _ ...any) (bool, error) {
	b, ok := v.(bool)
	return ok && b, nil
}

func testFalse(v any, _ ...any) (bool, error) {
	b, ok := v.(bool)
	return ok && !b, nil
}

func testNumber(v any, _ ...any) (bool, error) {
	_, isBool := v.(bool)
	return !isBool && toNumber(v).kind != notNumber, nil
}

func testInteger(v any, _ ...any) (bool, error) {
	_, isBool := v.(bool)
	kind := toNumber(v).kind

	return !isBool && (kind == signedNumber || kind == unsignedNumber), nil
}

func testFloat(v any, _ ...any) (bool, error) {
	return toNumber(v).kind == floatNumber, nil
}

func testString(v any, _ ...any) (bool, error) {
	_, ok := toStr(v)
	return ok, nil
}

func testMapping(v any, _ ...any) (bool, error) {
	return reflect.ValueOf(v).Kind() == reflect.Map, nil
}

func testSequence(v any, _ ...any) (bool, error) {
	if _, ok := toStr(v); ok {
		return true, nil
	}

	switch reflect.ValueOf(v).Kind() { //nolint:exhaustive // only containers are sequences
	case reflect.Slice, reflect.Array, reflect.Map:
		return true, nil
	}

	return false, nil
}

func testLower(v any, _ ...any) (bool, error) {
	s, ok := toStr(v)
	return ok && s == strings.ToLower(s), nil
}

func testUpper(v any, _ ...any) (bool, error) {
	s, ok := toStr(v)
	return ok && s == strings.ToUpper(s), nil
}

func testIn(v any, args ...any) (bool, error) {
	if len(args) != 1 {
		return false, fmt.Errorf("test in: expected 1 argument, got %d", len(args))
	}

	if haystack, ok := toStr(args[0]); ok {
		needle, ok := toStr(v)
		if !ok {
			return false, fmt.Errorf("test in: cannot look for %T in a string", v)
		}

		return strings.Contains(haystack, needle), nil
	}

	rv := reflect.ValueOf(args[0])
	if rv.Kind() == reflect.Map {
		for _, key := range rv.MapKeys() {
			if Equal(key.Interface(), v) {
				return true, nil
			}
		}

		return false, nil
	}

	items, ok := toList(args[0])
	if !ok {
		return false, fmt.Errorf("test in: %T is not a container", args[0])
	}

	for _, item := range items {
		if Equal(item, v) {
			return true, nil
		}
	}

	return false, nil
}

func testEq(v any, args ...any) (bool, error) {
	if len(args) != 1 {
		return false, fmt.Errorf("test eq: expected 1 argument, got %d", len(args))
	}

	return Equal(v, args[0]), nil
}

func testOrder(accept func(c int) bool) TestFunc {
	return func(v any, args ...any) (bool, error) {
		if len(args) != 1 {
			return false, fmt.Errorf("comparison test: expected 1 argument, got %d", len(args))
		}

		c, err := Compare(v, args[0])
		if err != nil {
			return false, err
		}

		return accept(c), nil
	}
}

func negate(test TestFunc) TestFunc {
	return func(v any, args ...any) (bool, error) {
		ok, err := test(v, args...)
		return !ok, err
	}
}
