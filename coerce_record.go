package datamodel

import (
	"fmt"
	"reflect"
	"sort"
	"unsafe"

	"github.com/viant/datamodel/visitor"
)

type (
	recordInput struct {
		values  []interface{}
		present []bool
		unknown []unknownEntry
	}

	unknownEntry struct {
		key   string
		value interface{}
	}

	// recordBuilder sets coerced values on struct instance through xunsafe or on dynamic record slots
	recordBuilder struct {
		schema *Schema
		ptr    unsafe.Pointer
		value  reflect.Value
		record *Record
	}
)

func newRecordBuilder(schema *Schema) *recordBuilder {
	ret := &recordBuilder{schema: schema}
	if schema.IsStruct() {
		ret.value = reflect.New(schema.rType)
		ret.ptr = unsafe.Pointer(ret.value.Pointer())
		if schema.marker != nil {
			schema.marker.flagsPointer(ret.ptr, true)
		}
		return ret
	}
	ret.record = NewRecord(schema)
	return ret
}

func (b *recordBuilder) set(field *Field, value interface{}) error {
	if b.record != nil {
		b.record.setValue(field, value)
		return nil
	}
	if b.schema.marker != nil {
		b.schema.marker.set(b.ptr, field.index)
	}
	if value == nil {
		return nil
	}
	rValue, err := assign(field.goType, value)
	if err != nil {
		return err
	}
	reflect.NewAt(field.goType, field.xField.Pointer(b.ptr)).Elem().Set(rValue)
	return nil
}

func (b *recordBuilder) setExtra(key string, value interface{}) {
	if b.record != nil {
		b.record.setExtra(key, value)
	}
}

func (b *recordBuilder) instance(s *session, errs *ErrorMap) interface{} {
	if b.record != nil {
		b.record.errors = errs
		b.record.engine = s.engine
		opts := s.opts
		b.record.options = &opts
		return b.record
	}
	return b.value.Interface()
}

func (s *session) schemaOf(aType *Type) (*Schema, error) {
	if aType.schema != nil {
		return aType.schema, nil
	}
	return s.engine.Schema(aType.rType)
}

func (s *session) coerceRecord(aType *Type, raw interface{}) (outcome, error) {
	schema, err := s.schemaOf(aType)
	if err != nil {
		return outcome{}, &ConversionError{Value: raw, Expected: aType.String(), Err: err}
	}
	target := aType.GoType()
	if rType := reflect.TypeOf(raw); schema.IsStruct() && rType.Kind() == reflect.Struct && areStructTypesCompatible(rType, schema.rType) {
		if value, err := assign(target, raw); err == nil {
			return outcome{value: value.Interface(), resolved: aType}, nil
		}
	}
	instance, errs, err := s.expand(schema, raw)
	if errs.Len() > 0 {
		return outcome{}, &ConversionError{Value: raw, Expected: aType.String(), Err: errs}
	}
	if err != nil {
		return outcome{}, err
	}
	if schema.IsStruct() && target.Kind() == reflect.Struct {
		instance = reflect.ValueOf(instance).Elem().Interface()
	}
	return outcome{value: instance, resolved: aType}, nil
}

// expand builds schema instance from raw input: *T for struct schemas, *Record for dynamic ones,
// strict mode stops at the first failing field
func (s *session) expand(schema *Schema, raw interface{}) (interface{}, *ErrorMap, error) {
	errs := NewErrorMap()
	input, err := s.recordInput(schema, raw)
	if err != nil {
		return nil, errs, err
	}
	builder := newRecordBuilder(schema)
	for _, field := range schema.fields {
		value, present := input.values[field.index], input.present[field.index]
		if !present && field.HasDefault() {
			value, present = field.defaultValue(), true
		}
		if failure := s.processField(builder, field, value, present); failure != nil {
			errs.Add(failure)
			if s.opts.Mode == ModeStrict {
				s.opts.Logger.Debug("coercion aborted", "schema", schema.Name, "field", failure.Field, "kind", string(failure.Kind))
				return nil, errs, failure
			}
			s.opts.Logger.Debug("field rejected", "schema", schema.Name, "field", failure.Field, "kind", string(failure.Kind), "error", failure.Message)
		}
	}
	for _, entry := range input.unknown {
		switch s.opts.UnknownFieldPolicy {
		case ErrorOnUnknown:
			failure := newErrorRecord(entry.key, entry.value, nil, &UnknownField{Field: entry.key, Value: entry.value})
			errs.Add(failure)
			if s.opts.Mode == ModeStrict {
				s.opts.Logger.Debug("coercion aborted", "schema", schema.Name, "field", entry.key, "kind", string(failure.Kind))
				return nil, errs, failure
			}
		case AllowUnknown:
			builder.setExtra(entry.key, entry.value)
		}
	}
	return builder.instance(s, errs), errs, nil
}

func (s *session) processField(builder *recordBuilder, field *Field, value interface{}, present bool) *ErrorRecord {
	out := outcome{resolved: field.Type}
	if present {
		var err error
		if out, err = s.coerceField(field, value); err != nil {
			return newErrorRecord(field.Name, value, field.Type, err)
		}
	}
	if err := s.validate(field, out.value, out.resolved, present); err != nil {
		return newErrorRecord(field.Name, value, field.Type, err)
	}
	if !present {
		return nil
	}
	if err := builder.set(field, out.value); err != nil {
		return newErrorRecord(field.Name, value, field.Type, &ConversionError{Value: value, Expected: field.Type.String(), Err: err})
	}
	return nil
}

// recordInput resolves raw mapping, sequence, record or scalar into field slots
func (s *session) recordInput(schema *Schema, raw interface{}) (*recordInput, error) {
	ret := &recordInput{values: make([]interface{}, schema.Len()), present: make([]bool, schema.Len())}
	if isNil(raw) {
		return ret, nil
	}
	switch actual := raw.(type) {
	case *Record:
		ret.fromMap(schema, actual.asMap())
		return ret, nil
	case map[string]interface{}:
		ret.fromMap(schema, actual)
		return ret, nil
	}
	raw = deref(raw)
	rType := reflect.TypeOf(raw)
	_, primitive := s.opts.Registry.Lookup(rType)
	switch rType.Kind() {
	case reflect.Map:
		aMap, err := stringKeyed(raw)
		if err != nil {
			return nil, &ConversionError{Value: raw, Expected: schema.Name, Err: err}
		}
		ret.fromMap(schema, aMap)
		return ret, nil
	case reflect.Slice, reflect.Array:
		if !primitive {
			if err := ret.fromSlice(schema, raw); err != nil {
				return nil, &ConversionError{Value: raw, Expected: schema.Name, Err: err}
			}
			return ret, nil
		}
	case reflect.Struct:
		if !primitive {
			aMap, err := structMap(raw)
			if err != nil {
				return nil, &ConversionError{Value: raw, Expected: schema.Name, Err: err}
			}
			ret.fromMap(schema, aMap)
			return ret, nil
		}
	}
	field := schema.singleField()
	if field == nil {
		return nil, &ConversionError{Value: raw, Expected: schema.Name, Reason: "expected mapping, sequence or record"}
	}
	ret.values[field.index], ret.present[field.index] = raw, true
	return ret, nil
}

func (r *recordInput) fromMap(schema *Schema, aMap map[string]interface{}) {
	for _, field := range schema.fields {
		if field.Alias != "" {
			if value, ok := aMap[field.Alias]; ok {
				r.values[field.index], r.present[field.index] = value, true
				continue
			}
		}
		if value, ok := aMap[field.Name]; ok {
			r.values[field.index], r.present[field.index] = value, true
		}
	}
	var keys []string
	for key := range aMap {
		if schema.byKey[key] == nil {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		r.unknown = append(r.unknown, unknownEntry{key: key, value: aMap[key]})
	}
}

func (r *recordInput) fromSlice(schema *Schema, raw interface{}) error {
	visit, err := visitor.AnySliceVisitorOf(raw)
	if err != nil {
		return err
	}
	return visit(func(index int, item interface{}) (bool, error) {
		if index < len(schema.fields) {
			r.values[index], r.present[index] = item, true
			return true, nil
		}
		r.unknown = append(r.unknown, unknownEntry{key: fmt.Sprintf("#%d", index), value: item})
		return true, nil
	})
}

// stringKeyed returns map keyed by key text
func stringKeyed(raw interface{}) (map[string]interface{}, error) {
	visit, err := visitor.AnyMapVisitorOf(raw)
	if err != nil {
		return nil, err
	}
	ret := map[string]interface{}{}
	err = visit(func(key, value interface{}) (bool, error) {
		ret[keyText(key)] = value
		return true, nil
	})
	return ret, err
}

func keyText(key interface{}) string {
	if text, ok := key.(string); ok {
		return text
	}
	return fmt.Sprint(key)
}

// structMap returns exported struct fields keyed by json name
func structMap(raw interface{}) (map[string]interface{}, error) {
	visit, err := visitor.StructVisitorOf(raw)
	if err != nil {
		return nil, err
	}
	ret := map[string]interface{}{}
	err = visit(func(key string, value interface{}) (bool, error) {
		ret[key] = value
		return true, nil
	})
	return ret, err
}
