package datamodel

import (
	"fmt"
	"reflect"

	"github.com/viant/xunsafe"
)

type (
	// Validator is a custom field check, declared is the resolved type that produced the value
	Validator func(field *Field, value interface{}, declared *Type) error

	// Parser replaces type dispatch for raw input
	Parser func(raw interface{}) (interface{}, error)

	// Encoder replaces type dispatch for raw input when no Parser is set
	Encoder func(raw interface{}) (interface{}, error)

	// Decoder transforms coerced value on output (Record.ToMap, JSON encoding)
	Decoder func(value interface{}) (interface{}, error)

	// Factory produces default value
	Factory func() interface{}
)

// Field represents field descriptor, it is read-only after construction
type Field struct {
	Name           string
	Alias          string
	Type           *Type
	Required       bool
	Nullable       bool
	PrimaryKey     bool
	DBDefault      bool
	Default        interface{}
	DefaultFactory Factory
	Constraints    Constraints
	Validator      Validator
	Parser         Parser
	Encoder        Encoder
	Decoder        Decoder

	hasDefault bool
	pattern    string
	index      int
	goType     reflect.Type
	xField     *xunsafe.Field
}

// NewField creates a field descriptor
func NewField(name string, aType *Type, opts ...FieldOption) (*Field, error) {
	if name == "" {
		return nil, fmt.Errorf("field name was empty")
	}
	if aType == nil {
		aType = Any()
	}
	ret := &Field{Name: name, Type: aType, Nullable: true}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.hasDefault && ret.DefaultFactory != nil {
		return nil, fmt.Errorf("field %v: default value and default factory are mutually exclusive", name)
	}
	if ret.pattern != "" {
		pattern, err := compilePattern(ret.pattern)
		if err != nil {
			return nil, fmt.Errorf("field %v: %w", name, err)
		}
		ret.Constraints.Pattern = pattern
	}
	return ret, nil
}

// MustField creates a field descriptor or panics
func MustField(name string, aType *Type, opts ...FieldOption) *Field {
	ret, err := NewField(name, aType, opts...)
	if err != nil {
		panic(err)
	}
	return ret
}

// Category returns classified declared type
func (f *Field) Category() *Category {
	return f.Type.Category()
}

// Index returns field position in its schema
func (f *Field) Index() int {
	return f.index
}

// HasDefault returns true if default value or factory is declared
func (f *Field) HasDefault() bool {
	return f.hasDefault || f.DefaultFactory != nil
}

func (f *Field) defaultValue() interface{} {
	if f.DefaultFactory != nil {
		return f.DefaultFactory()
	}
	return f.Default
}

// Key returns input key: alias when declared, name otherwise
func (f *Field) Key() string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

func (f *Field) String() string {
	return f.Name + " " + f.Type.String()
}
