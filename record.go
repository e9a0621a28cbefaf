package datamodel

import (
	"fmt"
	"sort"
)

// Record represents dynamic schema instance, values are stored in slots following schema field order
type Record struct {
	schema    *Schema
	values    []interface{}
	present   []bool
	extras    map[string]interface{}
	oldValues map[string]interface{}
	errors    *ErrorMap
	engine    *Engine
	options   *Options
}

// NewRecord creates an empty record of supplied schema
func NewRecord(schema *Schema) *Record {
	return &Record{
		schema:  schema,
		values:  make([]interface{}, schema.Len()),
		present: make([]bool, schema.Len()),
		errors:  NewErrorMap(),
	}
}

// Schema returns record schema
func (r *Record) Schema() *Schema {
	return r.schema
}

// Get returns field value by name or alias
func (r *Record) Get(name string) (interface{}, bool) {
	field := r.schema.Field(name)
	if field == nil {
		value, ok := r.extras[name]
		return value, ok
	}
	return r.values[field.index], r.present[field.index]
}

// Set assigns field value, when the schema validates assignment the value is coerced and validated first
func (r *Record) Set(name string, value interface{}) error {
	field := r.schema.Field(name)
	if field == nil {
		return &UnknownField{Field: name, Value: value}
	}
	if r.oldValues == nil {
		r.oldValues = map[string]interface{}{}
	}
	if _, ok := r.oldValues[field.Name]; !ok {
		r.oldValues[field.Name] = value
	}
	if !r.schema.validateAssignment {
		r.setValue(field, value)
		return nil
	}
	engine := r.engine
	if engine == nil {
		engine = defaultEngine
	}
	var s *session
	if r.options != nil {
		s = engine.sessionOf(*r.options)
	} else {
		s = engine.session(nil)
	}
	out, err := s.coerceField(field, value)
	if err == nil {
		err = s.validate(field, out.value, out.resolved, true)
	}
	if err != nil {
		record := newErrorRecord(field.Name, value, field.Type, err)
		s.opts.Logger.Debug("assignment rejected", "schema", r.schema.Name, "field", field.Name, "kind", string(record.Kind))
		return record
	}
	r.setValue(field, out.value)
	return nil
}

func (r *Record) setValue(field *Field, value interface{}) {
	r.values[field.index] = value
	r.present[field.index] = true
}

func (r *Record) setExtra(key string, value interface{}) {
	if r.extras == nil {
		r.extras = map[string]interface{}{}
	}
	r.extras[key] = value
}

// Values returns field values in schema order
func (r *Record) Values() []interface{} {
	return append([]interface{}{}, r.values...)
}

// Extras returns undeclared input keys kept under AllowUnknown policy
func (r *Record) Extras() map[string]interface{} {
	return r.extras
}

// OldValue returns the first raw value assigned to a field with Set
func (r *Record) OldValue(name string) (interface{}, bool) {
	field := r.schema.Field(name)
	if field == nil {
		return nil, false
	}
	value, ok := r.oldValues[field.Name]
	return value, ok
}

// Pop clears field value and its old value, returning the value it held
func (r *Record) Pop(name string) (interface{}, error) {
	field := r.schema.Field(name)
	if field == nil {
		return nil, &UnknownField{Field: name}
	}
	value := r.values[field.index]
	r.values[field.index], r.present[field.index] = nil, false
	delete(r.oldValues, field.Name)
	return value, nil
}

// ResetValues forgets old values recorded by Set
func (r *Record) ResetValues() {
	r.oldValues = nil
}

// PrimaryKey returns primary key values in schema order
func (r *Record) PrimaryKey() []interface{} {
	var result []interface{}
	for _, field := range r.schema.PrimaryKeys() {
		result = append(result, r.values[field.index])
	}
	return result
}

// IsValid returns true if no error was reported while the record was built
func (r *Record) IsValid() bool {
	return r.errors.Len() == 0
}

// Errors returns errors reported while the record was built
func (r *Record) Errors() *ErrorMap {
	return r.errors
}

// Keys returns field names followed by sorted extra keys
func (r *Record) Keys() []string {
	result := make([]string, 0, len(r.values)+len(r.extras))
	for _, field := range r.schema.fields {
		result = append(result, field.Name)
	}
	extras := make([]string, 0, len(r.extras))
	for key := range r.extras {
		extras = append(extras, key)
	}
	sort.Strings(extras)
	return append(result, extras...)
}

// ToMap returns record as a map keyed by field name, field decoders are applied and nested records are converted too
func (r *Record) ToMap(removeNulls bool) (map[string]interface{}, error) {
	result := make(map[string]interface{}, len(r.values)+len(r.extras))
	for _, field := range r.schema.fields {
		value := r.values[field.index]
		if field.Decoder != nil && value != nil {
			decoded, err := field.Decoder(value)
			if err != nil {
				return nil, fmt.Errorf("failed to decode %v: %w", field.Name, err)
			}
			value = decoded
		}
		if nested, ok := value.(*Record); ok && nested != nil {
			aMap, err := nested.ToMap(removeNulls)
			if err != nil {
				return nil, fmt.Errorf("%v: %w", field.Name, err)
			}
			value = aMap
		}
		if value == nil && removeNulls {
			continue
		}
		result[field.Name] = value
	}
	for key, value := range r.extras {
		if value == nil && removeNulls {
			continue
		}
		result[key] = value
	}
	return result, nil
}

// asMap returns raw map form used to re-expand the record into another schema
func (r *Record) asMap() map[string]interface{} {
	result := make(map[string]interface{}, len(r.values)+len(r.extras))
	for _, field := range r.schema.fields {
		if r.present[field.index] {
			result[field.Name] = r.values[field.index]
		}
	}
	for key, value := range r.extras {
		result[key] = value
	}
	return result
}

func (r *Record) String() string {
	aMap, err := r.ToMap(false)
	if err != nil {
		return r.schema.Name + "{" + err.Error() + "}"
	}
	return fmt.Sprintf("%v%v", r.schema.Name, aMap)
}
