package datamodel

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/viant/datamodel/tags"
	"github.com/viant/xunsafe"
)

// SchemaOf creates schema of struct type driven by `datamodel` struct tags, json tag names are used as field names
func SchemaOf(rType reflect.Type, opts ...SchemaOption) (*Schema, error) {
	if rType == nil {
		return nil, fmt.Errorf("struct type was nil")
	}
	if rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	if rType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("expected struct, but had %v", rType)
	}
	ret := &Schema{Name: rType.Name(), rType: rType}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.Name == "" {
		ret.Name = rType.String()
	}
	fields, err := ret.structFields(rType, 0)
	if err != nil {
		return nil, err
	}
	if err = ret.init(fields); err != nil {
		return nil, err
	}
	for i := 0; i < rType.NumField(); i++ {
		if holder := rType.Field(i); IsSetMarker(holder.Tag) {
			if ret.marker, err = newMarker(holder, fields); err != nil {
				return nil, fmt.Errorf("%v: %w", rType.Name(), err)
			}
			break
		}
	}
	return ret, nil
}

func (s *Schema) structFields(rType reflect.Type, offset uintptr) ([]*Field, error) {
	var result []*Field
	for i := 0; i < rType.NumField(); i++ {
		structField := rType.Field(i)
		structField.Offset += offset
		if IsSetMarker(structField.Tag) {
			continue
		}
		tag, err := tags.Parse(structField.Tag.Get(tags.TagName))
		if err != nil {
			return nil, fmt.Errorf("%v.%v: %w", rType.Name(), structField.Name, err)
		}
		if tag.Ignore {
			continue
		}
		if structField.Anonymous && structField.Type.Kind() == reflect.Struct && tag.Name == "" {
			embedded, err := s.structFields(structField.Type, structField.Offset)
			if err != nil {
				return nil, err
			}
			result = append(result, embedded...)
			continue
		}
		if !structField.IsExported() {
			continue
		}
		field, err := s.structField(structField, tag)
		if err != nil {
			return nil, err
		}
		if field != nil {
			result = append(result, field)
		}
	}
	return result, nil
}

func (s *Schema) structField(structField reflect.StructField, tag *tags.Tag) (*Field, error) {
	name := structField.Name
	if jsonName, _, _ := strings.Cut(structField.Tag.Get("json"), ","); jsonName == "-" {
		return nil, nil
	} else if jsonName != "" {
		name = jsonName
	}
	if tag.Name != "" {
		name = tag.Name
	}
	aType, ok := s.fieldTypes[name]
	if !ok {
		aType = Of(structField.Type)
	}
	var opts []FieldOption
	if tag.Alias != "" {
		opts = append(opts, Alias(tag.Alias))
	}
	if tag.Required {
		opts = append(opts, Required())
	}
	if tag.Nullable != nil {
		opts = append(opts, Nullable(*tag.Nullable))
	}
	if tag.PrimaryKey {
		opts = append(opts, PrimaryKey())
	}
	if tag.DBDefault {
		opts = append(opts, DBDefault())
	}
	if tag.Default != nil {
		opts = append(opts, Default(*tag.Default))
	}
	if tag.Pattern != "" {
		opts = append(opts, Pattern(tag.Pattern))
	}
	ret, err := NewField(name, aType, opts...)
	if err != nil {
		return nil, err
	}
	ret.Constraints.Min, ret.Constraints.Max = tag.Min, tag.Max
	ret.Constraints.Gt, ret.Constraints.Lt = tag.Gt, tag.Lt
	ret.Constraints.Ge, ret.Constraints.Le = tag.Ge, tag.Le
	ret.Constraints.Eq, ret.Constraints.Ne = tag.Eq, tag.Ne
	ret.Constraints.Length = tag.Length
	ret.Constraints.MinLength, ret.Constraints.MaxLength = tag.MinLength, tag.MaxLength
	ret.goType = structField.Type
	ret.xField = xunsafe.NewField(structField)
	return ret, nil
}
