package asyncfilters

import (
	"errors"
	"fmt"
)

var (
	// ErrAsyncSource is returned when an asynchronous producer is iterated by a synchronous render.
	ErrAsyncSource = errors.New("asynchronous source used in synchronous render")

	// ErrAsyncValue is returned when an awaitable value reaches a synchronous render.
	ErrAsyncValue = errors.New("awaitable value used in synchronous render")

	// ErrNotIterable is returned when a filter expecting a stream receives a scalar.
	ErrNotIterable = errors.New("value is not iterable")
)

// An UndefinedError reports that an attribute path could not be resolved on a value.
type UndefinedError struct {
	// Path is the full path being resolved, e.g. "date.year".
	Path string

	// Segment is the part of Path that failed.
	Segment string

	// Value is the object the failing segment was looked up on.
	Value any
}

// A ComparisonError reports two grouper keys that have no common ordering.
type ComparisonError struct {
	A any
	B any
}

// A LookupError reports an unknown filter or test name.
type LookupError struct {
	// Kind is either "filter" or "test".
	Kind string
	Name string
}

// A FilterError wraps a failure raised while a named filter was running.
type FilterError struct {
	Filter string
	Err    error
}

// An ArgumentError reports a missing or malformed filter argument.
type ArgumentError struct {
	Filter string
	Arg    string
	Reason string
}

// Error implements error.
func (e *UndefinedError) Error() string {
	if e.Path == e.Segment {
		return fmt.Sprintf("%T has no attribute or item %q", e.Value, e.Segment)
	}

	return fmt.Sprintf("%T has no attribute or item %q (resolving %q)", e.Value, e.Segment, e.Path)
}

// Error implements error.
func (e *ComparisonError) Error() string {
	return fmt.Sprintf("cannot compare %T with %T", e.A, e.B)
}

// Error implements error.
func (e *LookupError) Error() string {
	return fmt.Sprintf("no %s named %q", e.Kind, e.Name)
}

// Error implements error.
func (e *FilterError) Error() string {
	return fmt.Sprintf("filter %s: %v", e.Filter, e.Err)
}

// Unwrap returns the underlying error.
func (e *FilterError) Unwrap() error {
	return e.Err
}

// Error implements error.
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: argument %s %s", e.Filter, e.Arg, e.Reason)
}
