package conv

import (
	"fmt"
	"reflect"
)

// Error reports a raw value that cannot be reshaped into the target kind
type Error struct {
	Value  interface{}
	Kind   Kind
	Target reflect.Type
	Reason string
	Err    error
}

func (e *Error) Error() string {
	target := e.Kind.String()
	if e.Target != nil && e.Target.String() != target {
		target += " (" + e.Target.String() + ")"
	}
	msg := fmt.Sprintf("cannot convert %v (%T) to %s", e.Value, e.Value, target)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IndexError reports a failed element of a bulk conversion
type IndexError struct {
	Index int
	Err   error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("element %d: %v", e.Index, e.Err)
}

func (e *IndexError) Unwrap() error {
	return e.Err
}

func newError(value interface{}, kind Kind, reason string, err error) *Error {
	return &Error{Value: value, Kind: kind, Reason: reason, Err: err}
}
