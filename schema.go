package datamodel

import (
	"fmt"
	"reflect"

	"github.com/viant/tagly/format/text"
	"github.com/viant/xunsafe"
)

// Schema represents ordered, name unique record fields
type Schema struct {
	Name               string
	fields             []*Field
	byName             map[string]*Field
	byKey              map[string]*Field
	rType              reflect.Type
	aliasFunc          AliasFunc
	fieldTypes         map[string]*Type
	validateAssignment bool
	marker             *marker
}

// SchemaOption represents schema option
type SchemaOption func(s *Schema)

// WithAliasFunc sets alias function used for fields without explicit alias
func WithAliasFunc(fn AliasFunc) SchemaOption {
	return func(s *Schema) { s.aliasFunc = fn }
}

// WithCaseFormat derives aliases of fields without explicit alias from supplied case format
func WithCaseFormat(caseFormat text.CaseFormat) SchemaOption {
	return func(s *Schema) { s.aliasFunc = CaseFormatAlias(caseFormat) }
}

// WithFieldType overrides declared type of a struct field
func WithFieldType(name string, aType *Type) SchemaOption {
	return func(s *Schema) {
		if s.fieldTypes == nil {
			s.fieldTypes = map[string]*Type{}
		}
		s.fieldTypes[name] = aType
	}
}

// ValidateAssignment enables coercion and validation in Record.Set
func ValidateAssignment() SchemaOption {
	return func(s *Schema) { s.validateAssignment = true }
}

// NewSchema creates dynamic record schema, supplied fields are copied
func NewSchema(name string, fields []*Field, opts ...SchemaOption) (*Schema, error) {
	ret := &Schema{Name: name}
	for _, opt := range opts {
		opt(ret)
	}
	owned := make([]*Field, len(fields))
	for i, field := range fields {
		if field == nil {
			return nil, fmt.Errorf("schema %v: field %d was nil", name, i)
		}
		clone := *field
		if aType, ok := ret.fieldTypes[clone.Name]; ok {
			clone.Type = aType
		}
		owned[i] = &clone
	}
	if err := ret.init(owned); err != nil {
		return nil, err
	}
	return ret, nil
}

// MustSchema creates dynamic record schema or panics
func MustSchema(name string, fields ...*Field) *Schema {
	ret, err := NewSchema(name, fields)
	if err != nil {
		panic(err)
	}
	return ret
}

func (s *Schema) init(fields []*Field) error {
	s.fields = fields
	s.byName = make(map[string]*Field, len(fields))
	s.byKey = make(map[string]*Field, 2*len(fields))
	for i, field := range fields {
		field.index = i
		if _, ok := s.byName[field.Name]; ok {
			return fmt.Errorf("schema %v: duplicate field %v", s.Name, field.Name)
		}
		s.byName[field.Name] = field
	}
	for _, field := range fields {
		if field.Alias == "" && s.aliasFunc != nil {
			if alias := s.aliasFunc(field.Name); alias != field.Name {
				field.Alias = alias
			}
		}
		for _, key := range []string{field.Name, field.Alias} {
			if key == "" {
				continue
			}
			if other, ok := s.byKey[key]; ok && other != field {
				return fmt.Errorf("schema %v: %v of field %v collides with field %v", s.Name, key, field.Name, other.Name)
			}
			if other, ok := s.byName[key]; ok && other != field {
				return fmt.Errorf("schema %v: alias %v of field %v collides with field %v", s.Name, key, field.Name, other.Name)
			}
			s.byKey[key] = field
		}
	}
	return nil
}

// Fields returns fields in declaration order
func (s *Schema) Fields() []*Field {
	return s.fields
}

// Len returns number of fields
func (s *Schema) Len() int {
	return len(s.fields)
}

// Field returns field by name or alias
func (s *Schema) Field(key string) *Field {
	return s.byKey[key]
}

// Type returns struct type of struct based schema, nil for dynamic one
func (s *Schema) Type() reflect.Type {
	return s.rType
}

// IsStruct returns true for struct based schema
func (s *Schema) IsStruct() bool {
	return s.rType != nil
}

// IsSet returns true if field was present in raw input the struct instance was built from,
// schemas without set marker report every field as set
func (s *Schema) IsSet(instance interface{}, name string) bool {
	field := s.Field(name)
	if s.marker == nil || field == nil {
		return true
	}
	ptr := xunsafe.AsPointer(instance)
	if ptr == nil {
		return false
	}
	return s.marker.isSet(ptr, field.index)
}

// PrimaryKeys returns primary key fields
func (s *Schema) PrimaryKeys() []*Field {
	var result []*Field
	for _, field := range s.fields {
		if field.PrimaryKey {
			result = append(result, field)
		}
	}
	return result
}

// Sample returns field defaults keyed by name under "properties" and required field names under "required"
func (s *Schema) Sample() map[string]interface{} {
	properties := make(map[string]interface{}, len(s.fields))
	required := []string{}
	for _, field := range s.fields {
		var value interface{}
		if field.HasDefault() {
			value = field.defaultValue()
		}
		properties[field.Name] = value
		if field.Required {
			required = append(required, field.Name)
		}
	}
	return map[string]interface{}{"properties": properties, "required": required}
}

// singleField returns the field a scalar input can be wrapped into: the only field or the only required one
func (s *Schema) singleField() *Field {
	if len(s.fields) == 1 {
		return s.fields[0]
	}
	var ret *Field
	for _, field := range s.fields {
		if !field.Required {
			continue
		}
		if ret != nil {
			return nil
		}
		ret = field
	}
	return ret
}

func (s *Schema) identity() string {
	if s.rType != nil {
		return s.rType.PkgPath() + "/" + s.rType.String()
	}
	return fmt.Sprintf("%s@%p", s.Name, s)
}
