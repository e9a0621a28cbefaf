package datamodel

import (
	"fmt"
	"reflect"
	"strings"
)

// ErrorKind identifies failure class of an ErrorRecord
type ErrorKind string

const (
	KindConversion   ErrorKind = "ConversionError"
	KindTypeMismatch ErrorKind = "TypeMismatchError"
	KindConstraint   ErrorKind = "ConstraintViolation"
	KindRequired     ErrorKind = "RequiredFieldMissing"
	KindNull         ErrorKind = "NullNotAllowed"
	KindUnion        ErrorKind = "UnionExhausted"
	KindUnknownField ErrorKind = "UnknownField"
)

type (
	// ConversionError reports a raw value that cannot be reshaped into the declared type
	ConversionError struct {
		Value    interface{}
		Expected string
		Reason   string
		Err      error
	}

	// TypeMismatchError reports a value of unexpected runtime type
	TypeMismatchError struct {
		Value    interface{}
		Expected string
	}

	// ConstraintViolation reports a value outside the declared constraint or domain
	ConstraintViolation struct {
		Value      interface{}
		Constraint string
		Limit      interface{}
		Allowed    []interface{}
		// Err is set when a custom validator rejected the value
		Err error
	}

	// RequiredFieldMissing reports an absent required or primary key field
	RequiredFieldMissing struct {
		Field string
	}

	// NullNotAllowed reports nil assigned to non nullable field
	NullNotAllowed struct {
		Field string
	}

	// ArmFailure represents failed union arm attempt
	ArmFailure struct {
		Type string
		Err  error
	}

	// UnionExhausted reports that no union arm accepted the value
	UnionExhausted struct {
		Value interface{}
		Arms  []ArmFailure
	}

	// UnknownField reports input key not declared by schema
	UnknownField struct {
		Field string
		Value interface{}
	}
)

func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("cannot convert %v (%s) to %s", formatValue(e.Value), typeName(e.Value), e.Expected)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConversionError) Unwrap() error { return e.Err }

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("expected %s, but had %s", e.Expected, typeName(e.Value))
}

func (e *ConstraintViolation) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	if len(e.Allowed) > 0 {
		allowed := make([]string, len(e.Allowed))
		for i, v := range e.Allowed {
			allowed[i] = formatValue(v)
		}
		return fmt.Sprintf("%v is not one of [%s]", formatValue(e.Value), strings.Join(allowed, ", "))
	}
	if e.Limit == nil {
		return fmt.Sprintf("%v violates %s", formatValue(e.Value), e.Constraint)
	}
	return fmt.Sprintf("%v violates %s=%v", formatValue(e.Value), e.Constraint, e.Limit)
}

func (e *ConstraintViolation) Unwrap() error { return e.Err }

func (e *RequiredFieldMissing) Error() string {
	return fmt.Sprintf("field %s is required", e.Field)
}

func (e *NullNotAllowed) Error() string {
	return fmt.Sprintf("field %s is not nullable", e.Field)
}

func (e *UnionExhausted) Error() string {
	reasons := make([]string, len(e.Arms))
	for i, arm := range e.Arms {
		reasons[i] = arm.Type + ": " + arm.Err.Error()
	}
	return fmt.Sprintf("%v matched none of union arms: %s", formatValue(e.Value), strings.Join(reasons, "; "))
}

// Unwrap returns per arm errors
func (e *UnionExhausted) Unwrap() []error {
	ret := make([]error, len(e.Arms))
	for i, arm := range e.Arms {
		ret[i] = arm.Err
	}
	return ret
}

func (e *UnknownField) Error() string {
	return fmt.Sprintf("unknown field %s", e.Field)
}

// ErrorRecord represents a field failure with its context
type ErrorRecord struct {
	Field     string
	Value     interface{}
	Message   string
	ValueType string
	Expected  string
	Kind      ErrorKind
	Cause     error
}

func (e *ErrorRecord) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ErrorRecord) Unwrap() error { return e.Cause }

// newErrorRecord wraps cause with field context, the kind is derived from the cause type
func newErrorRecord(field string, value interface{}, expected *Type, cause error) *ErrorRecord {
	ret := &ErrorRecord{
		Field:     field,
		Value:     value,
		Message:   cause.Error(),
		ValueType: typeName(value),
		Kind:      kindOf(cause),
		Cause:     cause,
	}
	if expected != nil {
		ret.Expected = expected.String()
	}
	return ret
}

func kindOf(err error) ErrorKind {
	switch actual := err.(type) {
	case *ConversionError:
		return KindConversion
	case *TypeMismatchError:
		return KindTypeMismatch
	case *ConstraintViolation:
		return KindConstraint
	case *RequiredFieldMissing:
		return KindRequired
	case *NullNotAllowed:
		return KindNull
	case *UnionExhausted:
		return KindUnion
	case *UnknownField:
		return KindUnknownField
	case *ErrorRecord:
		return actual.Kind
	case *PathError:
		return kindOf(actual.Err)
	}
	return KindConversion
}

// ValidationError aggregates field errors
type ValidationError struct {
	Errors *ErrorMap
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%d validation error(s): %s", e.Errors.Len(), e.Errors.Error())
}

func (e *ValidationError) Unwrap() []error {
	return e.Errors.errors()
}

func typeName(value interface{}) string {
	if value == nil {
		return "nil"
	}
	return reflect.TypeOf(value).String()
}

func formatValue(value interface{}) string {
	switch actual := value.(type) {
	case nil:
		return "nil"
	case string:
		return fmt.Sprintf("%q", actual)
	}
	return fmt.Sprintf("%v", value)
}
