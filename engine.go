package datamodel

import (
	"fmt"
	"reflect"

	"github.com/viant/datamodel/internal/lru"
)

// Engine coerces and validates raw values against schemas, it is safe for concurrent use
type Engine struct {
	options []Option
	schemas *lru.Cache[reflect.Type, *Schema]
}

var defaultEngine = New()

// New creates an engine, supplied options are defaults of each call
func New(opts ...Option) *Engine {
	return &Engine{
		options: opts,
		schemas: lru.New[reflect.Type, *Schema](lru.DefaultCapacity),
	}
}

// Schema returns memoised schema of struct type
func (e *Engine) Schema(rType reflect.Type) (*Schema, error) {
	if rType == nil {
		return nil, fmt.Errorf("struct type was nil")
	}
	if rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	return e.schemas.GetOrCreate(rType, func() (*Schema, error) {
		return SchemaOf(rType)
	})
}

func (e *Engine) session(opts []Option) *session {
	if len(opts) == 0 {
		return e.sessionOf(resolveOptions(e.options))
	}
	all := make([]Option, 0, len(e.options)+len(opts))
	all = append(append(all, e.options...), opts...)
	return e.sessionOf(resolveOptions(all))
}

func (e *Engine) sessionOf(opts Options) *session {
	return &session{engine: e, opts: opts, convOpts: opts.converterOptions()}
}

// CoerceAndValidate builds schema instance from raw mapping, sequence or scalar.
// It returns *T for struct schemas and *Record for dynamic ones together with field errors.
// Lenient mode returns partially populated instance and all field errors with a nil error,
// strict mode returns the first failing field as *ErrorRecord.
func (e *Engine) CoerceAndValidate(schema *Schema, raw interface{}, opts ...Option) (interface{}, *ErrorMap, error) {
	if schema == nil {
		return nil, NewErrorMap(), fmt.Errorf("schema was nil")
	}
	s := e.session(opts)
	instance, errs, err := s.expand(schema, raw)
	if err != nil {
		if _, ok := err.(*ErrorRecord); !ok {
			s.opts.Logger.Debug("input rejected", "schema", schema.Name, "error", err.Error())
		}
		return nil, errs, err
	}
	return instance, errs, nil
}

// Coerce converts raw value into field type without validation
func (e *Engine) Coerce(field *Field, raw interface{}, opts ...Option) (interface{}, error) {
	s := e.session(opts)
	out, err := s.coerceField(field, raw)
	if err != nil {
		return nil, newErrorRecord(field.Name, raw, field.Type, err)
	}
	return out.value, nil
}

// Validate checks coerced value against field flags, validator and constraints
func (e *Engine) Validate(field *Field, value interface{}, opts ...Option) *ErrorRecord {
	s := e.session(opts)
	if err := s.validate(field, value, s.resolve(field.Type, value), true); err != nil {
		return newErrorRecord(field.Name, value, field.Type, err)
	}
	return nil
}

// CoerceAndValidateField coerces and validates a single field value
func (e *Engine) CoerceAndValidateField(field *Field, raw interface{}, opts ...Option) (interface{}, *ErrorRecord) {
	s := e.session(opts)
	out, err := s.coerceField(field, raw)
	if err == nil {
		err = s.validate(field, out.value, out.resolved, true)
	}
	if err != nil {
		return nil, newErrorRecord(field.Name, raw, field.Type, err)
	}
	return out.value, nil
}

// CoerceValue converts raw value into supplied type
func (e *Engine) CoerceValue(aType *Type, raw interface{}, opts ...Option) (interface{}, error) {
	s := e.session(opts)
	out, err := s.coerce(aType, raw)
	if err != nil {
		return nil, err
	}
	return out.value, nil
}

// resolve returns union arm of already coerced value
func (s *session) resolve(aType *Type, value interface{}) *Type {
	category := aType.Category()
	switch category.Kind {
	case CategoryOptional:
		return s.resolve(category.Inner(), value)
	case CategoryUnion:
		if isNil(value) {
			return aType
		}
		rType := reflect.TypeOf(deref(value))
		for _, arm := range category.Args {
			if arm.GoType() == rType {
				return arm
			}
		}
	}
	return aType
}
